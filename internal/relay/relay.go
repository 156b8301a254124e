package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/obsidianstack/sccrelay/internal/card"
	"github.com/obsidianstack/sccrelay/internal/config"
	"github.com/obsidianstack/sccrelay/internal/dispatch"
	"github.com/obsidianstack/sccrelay/internal/finding"
)

// Sender delivers one card. *dispatch.Dispatcher implements it.
type Sender interface {
	Send(ctx context.Context, card interface{}) (*dispatch.Response, error)
}

// Target is one delivery destination and the card profile it receives.
type Target struct {
	Name    string
	Profile card.Profile
	Sender  Sender
}

// Relay handles inbound finding events. It is safe for concurrent use.
type Relay struct {
	metrics *Metrics

	mu      sync.RWMutex
	opts    card.Options
	targets []Target
}

// New creates a Relay. m may be nil.
func New(opts card.Options, targets []Target, m *Metrics) *Relay {
	return &Relay{opts: opts, targets: targets, metrics: m}
}

// Reload replaces the card options and targets used by subsequent events.
func (r *Relay) Reload(opts card.Options, targets []Target) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.opts = opts
	r.targets = targets
}

// Targets returns a copy of the current target set.
func (r *Relay) Targets() []Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// Handle decodes ev, builds a card for every target and delivers each.
//
// Returned errors wrap *finding.DecodeError or *finding.MissingFieldError
// when nothing was sent, and one or more *dispatch.TransportError values
// (joined) when deliveries failed.
func (r *Relay) Handle(ctx context.Context, ev finding.Event) error {
	msg, err := finding.Decode(ev)
	if err != nil {
		r.metrics.event("decode_error")
		slog.Warn("relay: could not decode event", "message_id", ev.MessageID, "err", err)
		return fmt.Errorf("relay: %w", err)
	}

	slog.Info("relay: message decoded",
		"message_id", ev.MessageID,
		"notification_config", msg.NotificationConfigName,
		"message", msg.Raw,
	)

	r.mu.RLock()
	opts, targets := r.opts, r.targets
	r.mu.RUnlock()

	cards := make([]*card.MessageCard, len(targets))
	for i, t := range targets {
		c, err := card.Build(opts, t.Profile, msg)
		if err != nil {
			r.metrics.event("format_error")
			slog.Warn("relay: could not format card",
				"message_id", ev.MessageID,
				"target", t.Name,
				"profile", t.Profile.Name,
				"err", err,
			)
			return fmt.Errorf("relay: target %s: %w", t.Name, err)
		}
		cards[i] = c
	}

	var errs []error
	for i, t := range targets {
		if _, err := t.Sender.Send(ctx, cards[i]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		r.metrics.event("dispatch_error")
		return fmt.Errorf("relay: %w", errors.Join(errs...))
	}

	r.metrics.event("ok")
	return nil
}

// FromConfig builds card options and dispatch targets from configuration.
// Webhook URLs are resolved from the environment here; an unset variable is
// logged and left empty so the delivery fails at send time.
func FromConfig(cfg config.RelayConfig, m *dispatch.Metrics) (card.Options, []Target, error) {
	opts := card.Options{
		Provider: cfg.Card.Provider,
		Summary:  cfg.Card.Summary,
		ImageURL: cfg.Card.ImageURL,
	}

	targets := make([]Target, 0, len(cfg.Webhooks))
	for _, wh := range cfg.Webhooks {
		p, err := card.Lookup(wh.Profile)
		if err != nil {
			return card.Options{}, nil, fmt.Errorf("relay: webhook %s: %w", wh.Name, err)
		}
		url := wh.URL()
		if url == "" {
			slog.Warn("relay: webhook URL is not set, deliveries will fail",
				"target", wh.Name, "url_env", wh.URLEnv)
		}
		targets = append(targets, Target{
			Name:    wh.Name,
			Profile: p,
			Sender: dispatch.New(url,
				dispatch.WithName(wh.Name),
				dispatch.WithTimeout(wh.Timeout),
				dispatch.WithMetrics(m),
			),
		})
	}
	return opts, targets, nil
}
