package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	relaymodel "github.com/zhouzirui/voice-companion/backend/internal/model/relay"
)

// ElevenLabsClient forwards text-to-speech calls to the ElevenLabs REST API.
type ElevenLabsClient struct {
	baseURL string
	modelID string
	http    *http.Client
}

// NewElevenLabsClient creates a client for baseURL. modelID is applied when a
// request does not name one.
func NewElevenLabsClient(baseURL, modelID string, httpClient *http.Client) *ElevenLabsClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &ElevenLabsClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		modelID: modelID,
		http:    httpClient,
	}
}

// SynthesizeSpeech converts req.Text to audio with voiceID.
func (c *ElevenLabsClient) SynthesizeSpeech(ctx context.Context, voiceID string, req relaymodel.SynthesisRequest) (*relaymodel.Audio, error) {
	if req.Text == "" {
		return nil, ErrTextRequired
	}
	if req.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	req = req.WithDefaults(c.modelID)
	body, err := json.Marshal(map[string]any{
		"text":           req.Text,
		"model_id":       req.ModelID,
		"voice_settings": req.VoiceSettings,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal elevenlabs payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/text-to-speech/%s", c.baseURL, url.PathEscape(voiceID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create elevenlabs request: %w", err)
	}
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", req.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read elevenlabs response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Provider: providerElevenLabs, StatusCode: resp.StatusCode, Body: string(data)}
	}

	return &relaymodel.Audio{Data: data, ContentType: "audio/mpeg"}, nil
}
