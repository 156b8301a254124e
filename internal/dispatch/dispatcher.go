package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds one webhook POST.
const DefaultTimeout = 10 * time.Second

// TransportError reports a failed delivery. StatusCode is zero when no HTTP
// response was received.
type TransportError struct {
	Target     string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("dispatch %s: webhook returned HTTP %d", e.Target, e.StatusCode)
	}
	return fmt.Sprintf("dispatch %s: %v", e.Target, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrNoURL is wrapped by the TransportError returned when the destination
// URL is not configured.
var ErrNoURL = errors.New("webhook URL is empty")

// Response is the outcome of a delivered POST.
type Response struct {
	StatusCode int
	OK         bool
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.client.Timeout = timeout
		}
	}
}

// WithName sets the target name used in logs, errors and metric labels.
func WithName(name string) Option {
	return func(d *Dispatcher) { d.name = name }
}

// WithMetrics records every Send in m.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// Dispatcher POSTs JSON cards to a single webhook URL.
type Dispatcher struct {
	client  *http.Client
	url     string
	name    string
	metrics *Metrics
}

// New creates a Dispatcher targeting url.
func New(url string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		client: &http.Client{Timeout: DefaultTimeout},
		url:    url,
		name:   "webhook",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the target name.
func (d *Dispatcher) Name() string { return d.name }

// Send marshals card and POSTs it once.
func (d *Dispatcher) Send(ctx context.Context, card interface{}) (*Response, error) {
	start := time.Now()
	resp, err := d.send(ctx, card)
	d.metrics.observe(d.name, outcome(resp, err), time.Since(start))
	return resp, err
}

func (d *Dispatcher) send(ctx context.Context, card interface{}) (*Response, error) {
	if d.url == "" {
		slog.Error("dispatch: no webhook URL configured", "target", d.name)
		return nil, &TransportError{Target: d.name, Err: ErrNoURL}
	}

	body, err := json.Marshal(card)
	if err != nil {
		return nil, fmt.Errorf("dispatch %s: marshal card: %w", d.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.url, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Target: d.name, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-type", "application/json")

	slog.Info("dispatch: sending alert card", "target", d.name)

	resp, err := d.client.Do(req)
	if err != nil {
		slog.Error("dispatch: webhook request failed", "target", d.name, "err", err)
		return nil, &TransportError{Target: d.name, Err: fmt.Errorf("http post: %w", err)}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	out := &Response{
		StatusCode: resp.StatusCode,
		OK:         resp.StatusCode >= 200 && resp.StatusCode < 300,
	}
	slog.Info("dispatch: webhook responded",
		"target", d.name,
		"status", out.StatusCode,
		"ok", out.OK,
	)

	if !out.OK {
		return out, &TransportError{Target: d.name, StatusCode: resp.StatusCode}
	}
	return out, nil
}

func outcome(resp *Response, err error) string {
	switch {
	case err == nil:
		return "ok"
	case resp != nil:
		return "http_error"
	default:
		var te *TransportError
		if errors.As(err, &te) && errors.Is(te.Err, ErrNoURL) {
			return "no_url"
		}
		return "transport_error"
	}
}
