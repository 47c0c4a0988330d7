package static

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

// Handler 托管前端构建产物，并为单页应用回退到 index.html
type Handler struct {
	dir string
}

// New 创建静态资源处理器
func New(dir string) *Handler {
	return &Handler{dir: dir}
}

// RegisterRoutes 注册兜底路由，需在其他路由之后调用
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/*", h.handleAsset)
}

func (h *Handler) handleAsset(w http.ResponseWriter, r *http.Request) {
	urlPath := path.Clean("/" + r.URL.Path)

	if file, ok := h.resolve(urlPath); ok {
		setContentType(w, file)
		http.ServeFile(w, r, file)
		return
	}

	// 接口、带扩展名的路径与资源目录不回退到 index.html
	if strings.HasPrefix(urlPath, "/api/") || strings.Contains(urlPath, ".") || strings.HasPrefix(urlPath, "/assets/") {
		utils.RespondError(w, http.StatusNotFound, "Not found")
		return
	}

	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}

// resolve 查找请求路径对应的普通文件
func (h *Handler) resolve(urlPath string) (string, bool) {
	if urlPath == "/" {
		return "", false
	}
	file := filepath.Join(h.dir, filepath.FromSlash(urlPath))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return "", false
	}
	return file, true
}

func setContentType(w http.ResponseWriter, file string) {
	switch {
	case strings.HasSuffix(file, ".js"), strings.HasSuffix(file, ".mjs"):
		w.Header().Set("Content-Type", "application/javascript")
	case strings.HasSuffix(file, ".css"):
		w.Header().Set("Content-Type", "text/css")
	}
}
