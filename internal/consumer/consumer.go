package consumer

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/obsidianstack/sccrelay/internal/config"
	"github.com/obsidianstack/sccrelay/internal/finding"
)

const dialTimeout = 10 * time.Second

// Processor handles one event. *relay.Relay implements it.
type Processor interface {
	Handle(ctx context.Context, ev finding.Event) error
}

// Reader is the subset of *kafka.Reader used by Consumer.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads records from a topic and hands them to a Processor.
type Consumer struct {
	reader Reader
	proc   Processor
}

// New creates a Consumer reading from r.
func New(r Reader, proc Processor) *Consumer {
	return &Consumer{reader: r, proc: proc}
}

// NewReader builds a consumer-group reader from configuration.
func NewReader(cfg config.KafkaConfig) *kafka.Reader {
	dialer := &kafka.Dialer{
		Timeout:   dialTimeout,
		DualStack: true,
	}
	if cfg.TLS {
		dialer.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.SASL != nil {
		user, pass := cfg.SASL.Credentials()
		dialer.SASLMechanism = plain.Mechanism{Username: user, Password: pass}
	}
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   cfg.Topic,
		Dialer:  dialer,
	})
}

// Run fetches, handles and commits records until ctx is cancelled or the
// reader fails. The reader is closed on return.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			slog.Error("consumer: close reader", "err", err)
		}
	}()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
			slog.Info("consumer: stopped")
			return nil
		case err != nil:
			return fmt.Errorf("consumer: fetch: %w", err)
		}

		log := slog.With(
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
		)

		ev, err := EventFromMessage(msg)
		if err != nil {
			log.Warn("consumer: skipping record that is not a Pub/Sub message", "err", err)
		} else if err := c.proc.Handle(ctx, ev); err != nil {
			log.Error("consumer: record not relayed", "message_id", ev.MessageID, "err", err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("consumer: commit offset %d: %w", msg.Offset, err)
		}
	}
}

// EventFromMessage decodes a record value into an Event. A missing
// messageId is filled from the record key.
func EventFromMessage(msg kafka.Message) (finding.Event, error) {
	var ev finding.Event
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		return finding.Event{}, fmt.Errorf("decode record value: %w", err)
	}
	if ev.Data == "" {
		return finding.Event{}, errors.New("record value has no data")
	}
	if ev.MessageID == "" && len(msg.Key) > 0 {
		ev.MessageID = string(msg.Key)
	}
	return ev, nil
}
