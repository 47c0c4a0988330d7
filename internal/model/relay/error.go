package relay

// ErrorResponse is the JSON body every relay failure is reported with.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
