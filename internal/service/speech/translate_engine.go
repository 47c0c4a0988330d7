package speech

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	google_translate_tts "github.com/GrailFinder/google-translate-tts"
	"github.com/GrailFinder/google-translate-tts/handlers"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
)

// translateVoices 是 Google Translate TTS 可用的“音色”，以语言区分。
var translateVoices = []Voice{
	{Name: "Google UK English Male", Lang: "en-GB"},
	{Name: "Google US English", Lang: "en-US"},
}

// TranslateEngine 用 Google Translate TTS 作为终端下的本地兜底语音。
type TranslateEngine struct {
	mu     sync.Mutex
	folder string
}

// NewTranslateEngine 创建引擎，音频缓存写入 folder（为空时使用系统临时目录）。
func NewTranslateEngine(folder string) *TranslateEngine {
	if folder == "" {
		folder = filepath.Join(os.TempDir(), "voice-companion-tts")
	}
	return &TranslateEngine{folder: folder}
}

func (e *TranslateEngine) Available() bool { return true }

func (e *TranslateEngine) Voices() []Voice {
	out := make([]Voice, len(translateVoices))
	copy(out, translateVoices)
	return out
}

// Speak 合成并播放 u。Pitch 无法调节，Rate 通过重采样实现。
func (e *TranslateEngine) Speak(ctx context.Context, u Utterance) error {
	if strings.TrimSpace(u.Text) == "" {
		return nil
	}

	speech := &google_translate_tts.Speech{
		Folder:   e.folder,
		Language: languageOf(u.Voice),
		Proxy:    "",
		Speed:    1.0,
		Handler:  &handlers.Beep{},
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	reader, err := speech.GenerateSpeech(u.Text)
	if err != nil {
		return fmt.Errorf("generate speech failed: %w", err)
	}
	streamer, format, err := mp3.Decode(io.NopCloser(reader))
	if err != nil {
		return fmt.Errorf("mp3 decode failed: %w", err)
	}
	defer streamer.Close()

	return playStream(ctx, applyDelivery(streamer, u), format.SampleRate)
}

// applyDelivery 按 Rate 重采样、按 Volume 调整增益。
func applyDelivery(s beep.Streamer, u Utterance) beep.Streamer {
	if u.Rate > 0 && u.Rate != 1 {
		s = beep.ResampleRatio(3, u.Rate, s)
	}
	if u.Volume > 0 && u.Volume != 1 {
		s = &effects.Gain{Streamer: s, Gain: u.Volume - 1}
	}
	return s
}

func languageOf(v *Voice) string {
	if v == nil || v.Lang == "" {
		return "en"
	}
	lang := strings.ToLower(v.Lang)
	if i := strings.Index(lang, "-"); i > 0 {
		return lang[:i]
	}
	return lang
}
