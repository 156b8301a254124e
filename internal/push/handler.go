package push

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/obsidianstack/sccrelay/internal/dispatch"
	"github.com/obsidianstack/sccrelay/internal/finding"
)

// maxBodyBytes bounds a push body. Pub/Sub messages are at most 10 MB before
// base64 expansion.
const maxBodyBytes = 16 << 20

// Processor handles one decoded push message. *relay.Relay implements it.
type Processor interface {
	Handle(ctx context.Context, ev finding.Event) error
}

// Options configures the routes served by New.
type Options struct {
	// Path is the push route, e.g. "/push".
	Path string

	// Middleware wraps the push route only. Nil leaves it unwrapped.
	Middleware func(http.Handler) http.Handler

	// Metrics, when set, is served on GET /metrics.
	Metrics http.Handler
}

// Handler serves the push, health and metrics routes.
type Handler struct {
	proc Processor
	mux  *http.ServeMux
}

// New creates a Handler that passes push deliveries to proc.
func New(proc Processor, opts Options) http.Handler {
	h := &Handler{proc: proc, mux: http.NewServeMux()}

	var pushRoute http.Handler = http.HandlerFunc(h.push)
	if opts.Middleware != nil {
		pushRoute = opts.Middleware(pushRoute)
	}
	h.mux.Handle(opts.Path, pushRoute)
	h.mux.HandleFunc("/healthz", h.health)
	if opts.Metrics != nil {
		h.mux.Handle("/metrics", opts.Metrics)
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// push handles one Pub/Sub push delivery.
func (h *Handler) push(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		slog.Warn("push: malformed request body", "err", err)
		jsonErr(w, http.StatusBadRequest, "malformed push request")
		return
	}

	slog.Debug("push: message received",
		"message_id", req.Message.MessageID,
		"subscription", req.Subscription,
	)

	if err := h.proc.Handle(r.Context(), req.Message); err != nil {
		code := statusFor(err)
		slog.Error("push: message not relayed",
			"message_id", req.Message.MessageID,
			"status", code,
			"err", err,
		)
		jsonErr(w, code, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// health returns GET /healthz.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonErr(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	jsonResp(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// statusFor maps a relay error to the push response status. Any non-2xx
// makes Pub/Sub redeliver the message.
func statusFor(err error) int {
	var (
		de *finding.DecodeError
		mf *finding.MissingFieldError
		te *dispatch.TransportError
	)
	switch {
	case errors.As(err, &de), errors.As(err, &mf):
		return http.StatusBadRequest
	case errors.As(err, &te):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func jsonResp(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func jsonErr(w http.ResponseWriter, code int, msg string) {
	jsonResp(w, code, errorResponse{Error: msg})
}
