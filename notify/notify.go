// Package notify publishes generation events to NATS.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "artifactgen.generation"

// Event describes the outcome of one generation run.
type Event struct {
	RunID        string    `json:"runId"`
	ArtifactName string    `json:"artifactName"`
	Vocabs       []string  `json:"vocabs,omitempty"`
	Status       string    `json:"status"`
	Error        string    `json:"error,omitempty"`
	DurationMs   int64     `json:"durationMs"`
	Timestamp    time.Time `json:"timestamp"`
}

// NewEvent starts an event with a fresh run ID.
func NewEvent(artifactName string) *Event {
	return &Event{
		RunID:        uuid.NewString(),
		ArtifactName: artifactName,
		Timestamp:    time.Now().UTC(),
	}
}

// Finish records the status, error and elapsed time since the event was
// created.
func (e *Event) Finish(status string, err error) {
	e.Status = status
	if err != nil {
		e.Error = err.Error()
	}
	e.DurationMs = time.Since(e.Timestamp).Milliseconds()
}

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

// Publisher sends events to a subject. A nil *Publisher discards events.
type Publisher struct {
	nc      conn
	subject string
	logger  *slog.Logger
}

// Connect dials the NATS server at url.
func Connect(url, subject string, logger *slog.Logger) (*Publisher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	nc, err := nats.Connect(url,
		nats.Name("artifact-generator"),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("Disconnected from NATS", slog.String("error", err.Error()))
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return newPublisher(nc, subject, logger), nil
}

func newPublisher(nc conn, subject string, logger *slog.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{nc: nc, subject: subject, logger: logger}
}

// Publish sends e and waits for the server to acknowledge it.
func (p *Publisher) Publish(ctx context.Context, e *Event) error {
	if p == nil || e == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before publish: %w", err)
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush event: %w", err)
	}

	p.logger.Debug("Published generation event",
		slog.String("subject", p.subject),
		slog.String("run_id", e.RunID),
		slog.String("status", e.Status))
	return nil
}

// Close closes the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.nc.Close()
}
