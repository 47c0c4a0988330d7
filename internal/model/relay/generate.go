package relay

import "encoding/json"

// GenerateRequest is the body accepted by the language-generation relay.
// Contents is forwarded to the provider untouched.
type GenerateRequest struct {
	Contents json.RawMessage `json:"contents,omitempty"`
	APIKey   string          `json:"apiKey"`
}

// Content mirrors one Gemini content block.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a text part of a content block.
type Part struct {
	Text string `json:"text"`
}

// GenerateResponse is the subset of the Gemini generateContent response the
// dialogue pipeline reads.
type GenerateResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated alternative.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// FirstText returns the first part of the first candidate.
func (r GenerateResponse) FirstText() (string, bool) {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return "", false
	}
	return r.Candidates[0].Content.Parts[0].Text, true
}
