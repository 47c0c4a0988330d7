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

// GeminiClient forwards generateContent calls to the Gemini REST API.
type GeminiClient struct {
	baseURL string
	model   string
	http    *http.Client
}

// NewGeminiClient creates a client for baseURL and model. A nil httpClient
// falls back to a client without a timeout.
func NewGeminiClient(baseURL, model string, httpClient *http.Client) *GeminiClient {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &GeminiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		http:    httpClient,
	}
}

// GenerateContent sends contents with the caller's key and returns the raw
// provider JSON. Non-2xx responses come back as *UpstreamError.
func (c *GeminiClient) GenerateContent(ctx context.Context, req relaymodel.GenerateRequest) ([]byte, error) {
	if req.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}
	if isEmptyJSON(req.Contents) {
		return nil, ErrContentsRequired
	}

	body, err := json.Marshal(map[string]json.RawMessage{"contents": req.Contents})
	if err != nil {
		return nil, fmt.Errorf("marshal gemini payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(req.APIKey))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read gemini response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Provider: providerGemini, StatusCode: resp.StatusCode, Body: string(data)}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("gemini returned invalid JSON")
	}

	return data, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
