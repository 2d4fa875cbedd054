package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/hooklinehq/hookline/internal/core/domain"
)

// ErrDisconnected is returned by publish calls on a nil *Publisher, the
// degraded mode the API falls into when NATS is unreachable at boot.
var ErrDisconnected = errors.New("nats: publisher disconnected")

// Publisher implements ports.EventPublisher using NATS JetStream.
// A nil *Publisher is safe to call and reports ErrDisconnected.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	// Ensure streams exist
	streams := []nats.StreamConfig{
		{
			Name:      "CATCH_REPORTS",
			Subjects:  []string{"feed.catch.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "FEED_DIGESTS",
			Subjects:  []string{"feed.digest.>"},
			Retention: nats.InterestPolicy,
			MaxAge:    72 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}

	for _, cfg := range streams {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// PublishCatchReported announces one catch report on the durable feed stream.
func (p *Publisher) PublishCatchReported(ctx context.Context, c *domain.CatchRecord) error {
	if p == nil {
		return ErrDisconnected
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	_, err = p.js.Publish("feed.catch."+c.ID, data)
	return err
}

// PublishBroadcast fans raw payloads out to live map clients (not persisted).
func (p *Publisher) PublishBroadcast(ctx context.Context, data []byte) error {
	if p == nil {
		return ErrDisconnected
	}
	return p.conn.Publish("feed.updates.broadcast", data)
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
