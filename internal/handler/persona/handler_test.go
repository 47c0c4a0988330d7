package persona

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/voice-companion/backend/internal/model/persona"
)

func TestListPersonas(t *testing.T) {
	r := chi.NewRouter()
	New(persona.NewMemoryStore(persona.Seed())).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/personas", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var presets []persona.Preset
	if err := json.NewDecoder(resp.Body).Decode(&presets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(presets) != 5 {
		t.Fatalf("expected 5 presets, got %d", len(presets))
	}
	if presets[0].Kind != persona.KindDetective || presets[0].Name != "Detective Mr. X" {
		t.Fatalf("unexpected first preset %+v", presets[0])
	}
}
