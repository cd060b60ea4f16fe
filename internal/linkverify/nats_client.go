package linkverify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/docatlas/internal/config"
	"git.home.luguber.info/inful/docatlas/internal/foundation/errors"
	"git.home.luguber.info/inful/docatlas/internal/logfields"
)

// NATSClient publishes broken link events on a NATS subject.
type NATSClient struct {
	conn    *nats.Conn
	subject string
}

// NewNATSClient connects to the server named by cfg.
func NewNATSClient(cfg config.LinkEventsConfig) (*NATSClient, error) {
	if cfg.NATSURL == "" {
		return nil, errors.ConfigError("link events need runtime.link_events.nats_url").Build()
	}

	conn, err := nats.Connect(cfg.NATSURL,
		nats.Name("docatlas"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryBuild, "failed to connect to NATS").
			WithContext("url", cfg.NATSURL).
			Retryable().
			Build()
	}

	slog.Info("NATS client initialized for link events", logfields.URL(cfg.NATSURL), slog.String("subject", cfg.Subject))
	return &NATSClient{conn: conn, subject: cfg.Subject}, nil
}

// PublishBrokenLink publishes event and waits for the server to acknowledge the flush.
func (c *NATSClient) PublishBrokenLink(ctx context.Context, event *BrokenLinkEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := c.conn.Publish(c.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}
	slog.Debug("Published broken link event", logfields.URL(event.URL), logfields.Path(event.SourcePath))
	return nil
}

// Close drains and closes the connection.
func (c *NATSClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Drain()
}
