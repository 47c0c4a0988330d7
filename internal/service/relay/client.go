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

const providerRelay = "Relay"

// Client talks to the relay endpoints of a running api server, so that
// front-ends never reach the providers directly.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a relay client rooted at baseURL (e.g. http://localhost:3001).
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// GenerateContent posts to /api/gemini and returns the relayed provider JSON.
func (c *Client) GenerateContent(ctx context.Context, req relaymodel.GenerateRequest) ([]byte, error) {
	resp, err := c.post(ctx, c.baseURL+"/api/gemini", "application/json", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read relay response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Provider: providerRelay, StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// SynthesizeSpeech posts to /api/elevenlabs/v1/text-to-speech/{voiceID}.
func (c *Client) SynthesizeSpeech(ctx context.Context, voiceID string, req relaymodel.SynthesisRequest) (*relaymodel.Audio, error) {
	endpoint := fmt.Sprintf("%s/api/elevenlabs/v1/text-to-speech/%s", c.baseURL, url.PathEscape(voiceID))
	resp, err := c.post(ctx, endpoint, "audio/mpeg", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read relay audio: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{Provider: providerRelay, StatusCode: resp.StatusCode, Body: string(data)}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return &relaymodel.Audio{Data: data, ContentType: contentType}, nil
}

func (c *Client) post(ctx context.Context, endpoint, accept string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal relay payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request: %w", err)
	}
	return resp, nil
}
