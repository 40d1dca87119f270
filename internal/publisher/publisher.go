// Package publisher fans computed KPI snapshots out to subscribers.
package publisher

import (
	"context"
	"fmt"
	"strings"

	"github.com/pravado/citemind/internal/config"
	"github.com/pravado/citemind/internal/utils"
)

// Publisher publishes snapshot payloads to a subject/topic
type Publisher interface {
	// Publish publishes a message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// PublishBatch publishes multiple messages and waits for all to complete.
	// Returns the number of successfully published messages and any error
	PublishBatch(ctx context.Context, messages []BatchMessage) (int, error)

	// Close closes the connection
	Close() error
}

// BatchMessage represents a message for batch publishing
type BatchMessage struct {
	Subject string
	Data    []byte
}

// SnapshotSubject returns the subject a metric's snapshots are published on
func SnapshotSubject(metric string) string {
	return utils.SnapshotSubjectPrefix + "." + metric
}

// New creates a Publisher based on configuration. Default is Nop.
func New(cfg config.PublisherConfig) (Publisher, error) {
	publisherType := utils.PublisherType(strings.ToLower(cfg.Type))
	if publisherType == "" {
		publisherType = utils.PublisherTypeNone
	}

	switch publisherType {
	case utils.PublisherTypeNone:
		return Nop{}, nil

	case utils.PublisherTypeMemory:
		return newMemoryPublisher(utils.DefaultPublishBuffer), nil

	case utils.PublisherTypeNATS:
		return newNATSPublisher(cfg.URL, cfg.Password)

	case utils.PublisherTypeRedis:
		return newRedisPublisher(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
		})

	case utils.PublisherTypeKafka:
		return newKafkaPublisher(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
		})

	default:
		return nil, fmt.Errorf("unsupported publisher type: %s (supported: none, memory, redis, nats, kafka)", publisherType)
	}
}

// Nop discards every message
type Nop struct{}

// Publish discards the message
func (Nop) Publish(ctx context.Context, subject string, data []byte) error { return nil }

// PublishBatch discards the messages and reports them as published
func (Nop) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	return len(messages), nil
}

// Close is a no-op
func (Nop) Close() error { return nil }
