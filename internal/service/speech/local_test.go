package speech

import (
	"math"
	"testing"

	"github.com/gopxl/beep/v2"
)

func TestSelectVoice(t *testing.T) {
	tests := []struct {
		name   string
		voices []Voice
		want   string
	}{
		{
			name:   "first preference wins",
			voices: []Voice{{Name: "Microsoft David Desktop"}, {Name: "Google UK English Male"}},
			want:   "Google UK English Male",
		},
		{
			name:   "second preference",
			voices: []Voice{{Name: "Samantha"}, {Name: "Microsoft David - English (United States)"}},
			want:   "Microsoft David - English (United States)",
		},
		{
			name:   "first voice when nothing matches",
			voices: []Voice{{Name: "Samantha"}, {Name: "Daniel"}},
			want:   "Samantha",
		},
		{
			name: "no voices",
			want: "",
		},
	}

	for _, tt := range tests {
		got := SelectVoice(tt.voices, PreferredVoiceNames)
		name := ""
		if got != nil {
			name = got.Name
		}
		if name != tt.want {
			t.Errorf("%s: SelectVoice = %q, want %q", tt.name, name, tt.want)
		}
	}
}

func TestNewLocalUtterance(t *testing.T) {
	u := NewLocalUtterance("Hello.", []Voice{{Name: "Daniel"}})
	if u.Text != "Hello." {
		t.Fatalf("unexpected text %q", u.Text)
	}
	if u.Rate != 0.85 || u.Pitch != 0.75 || u.Volume != 1.0 {
		t.Fatalf("unexpected delivery rate=%v pitch=%v volume=%v", u.Rate, u.Pitch, u.Volume)
	}
	if u.Voice == nil || u.Voice.Name != "Daniel" {
		t.Fatalf("unexpected voice %+v", u.Voice)
	}
}

func TestLanguageOf(t *testing.T) {
	cases := map[string]string{"": "en", "en-GB": "en", "fr": "fr", "de-DE": "de"}
	for lang, want := range cases {
		var v *Voice
		if lang != "" {
			v = &Voice{Name: "x", Lang: lang}
		}
		if got := languageOf(v); got != want {
			t.Errorf("languageOf(%q) = %q, want %q", lang, got, want)
		}
	}
}

func constantStreamer(value float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{value, value}
		}
		return len(samples), true
	})
}

func TestApplyDeliveryVolume(t *testing.T) {
	s := applyDelivery(constantStreamer(0.8), Utterance{Rate: 1, Volume: 0.5})

	samples := make([][2]float64, 8)
	n, ok := s.Stream(samples)
	if !ok || n != len(samples) {
		t.Fatalf("unexpected stream result n=%d ok=%v", n, ok)
	}
	for i := 0; i < n; i++ {
		if math.Abs(samples[i][0]-0.4) > 1e-9 || math.Abs(samples[i][1]-0.4) > 1e-9 {
			t.Fatalf("sample %d = %v, want 0.4", i, samples[i])
		}
	}
}

func TestApplyDeliveryFullVolumeUnchanged(t *testing.T) {
	samples := make([][2]float64, 4)
	applyDelivery(constantStreamer(0.8), Utterance{Rate: 1, Volume: LocalVolume}).Stream(samples)
	if samples[0][0] != 0.8 {
		t.Fatalf("full volume should not change samples, got %v", samples[0])
	}
}
