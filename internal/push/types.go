package push

import "github.com/obsidianstack/sccrelay/internal/finding"

// Request is the body Pub/Sub POSTs to a push endpoint.
type Request struct {
	Message      finding.Event `json:"message"`
	Subscription string        `json:"subscription"`
}

// HealthResponse is the payload for GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}
