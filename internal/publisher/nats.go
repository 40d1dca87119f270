package publisher

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/pravado/citemind/internal/utils"
)

// NATSPublisher publishes snapshots on core NATS subjects.
// Dashboards subscribe to kpi.* and always want the latest value, so no stream is kept.
type NATSPublisher struct {
	conn *nats.Conn
}

// newNATSPublisher connects to a NATS server
func newNATSPublisher(url, token string) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("citemind-kpi"),
		nats.Timeout(utils.DialTimeout),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSPublisher{conn: conn}, nil
}

// newNATSPublisherWithConn wraps an existing connection (used in tests)
func newNATSPublisherWithConn(conn *nats.Conn) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// Publish publishes a message and flushes it to the server
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	if err := p.flush(ctx); err != nil {
		return fmt.Errorf("failed to flush subject %s: %w", subject, err)
	}
	return nil
}

// PublishBatch queues every message and waits for a single flush round-trip
func (p *NATSPublisher) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	queued := 0
	for _, msg := range messages {
		if err := p.conn.Publish(msg.Subject, msg.Data); err != nil {
			continue
		}
		queued++
	}

	if err := p.flush(ctx); err != nil {
		return 0, fmt.Errorf("failed to flush batch publish: %w", err)
	}

	return queued, nil
}

// flush waits for the server to acknowledge pending messages.
// FlushWithContext refuses contexts without a deadline.
func (p *NATSPublisher) flush(ctx context.Context) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, utils.DialTimeout)
		defer cancel()
	}
	return p.conn.FlushWithContext(ctx)
}

// Close drains and closes the NATS connection
func (p *NATSPublisher) Close() error {
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Drain(); err != nil {
			p.conn.Close()
			return err
		}
	}
	return nil
}
