package publisher

import (
	"context"
	"fmt"

	"github.com/pravado/citemind/internal/utils"
	"github.com/redis/go-redis/v9"
)

// RedisConfig represents Redis Streams configuration
type RedisConfig struct {
	URL      string // Redis URL (e.g., redis://localhost:6379)
	Password string // Optional password
	DB       int    // Database number (default: 0)
	Stream   string // Stream prefix (default: "citemind")
	MaxLen   int64  // Approximate stream length cap (default: 1000)
}

// RedisPublisher appends snapshots to Redis Streams
type RedisPublisher struct {
	client *redis.Client
	config RedisConfig
}

// redisOptions parses a redis:// URL or treats url as a plain address.
// A non-empty password and a non-zero DB override what the URL carries.
func redisOptions(url, password string, db int) *redis.Options {
	opts, err := redis.ParseURL(url)
	if err != nil {
		// Fallback to simple options
		return &redis.Options{
			Addr:     url,
			Password: password,
			DB:       db,
		}
	}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}
	return opts
}

// newRedisPublisher creates a new Redis Streams publisher
func newRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	client := redis.NewClient(redisOptions(cfg.URL, cfg.Password, cfg.DB))

	ctx, cancel := context.WithTimeout(context.Background(), utils.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.Stream == "" {
		cfg.Stream = utils.DefaultKeyPrefix
	}
	if cfg.MaxLen <= 0 {
		cfg.MaxLen = utils.DefaultPublishBuffer
	}

	return &RedisPublisher{
		client: client,
		config: cfg,
	}, nil
}

// streamName converts a subject to a Redis stream name
func (p *RedisPublisher) streamName(subject string) string {
	return fmt.Sprintf("%s:%s", p.config.Stream, subject)
}

func (p *RedisPublisher) xaddArgs(subject string, data []byte) *redis.XAddArgs {
	return &redis.XAddArgs{
		Stream: p.streamName(subject),
		MaxLen: p.config.MaxLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"data": data,
		},
	}
}

// Publish appends a message to the subject's stream
func (p *RedisPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.client.XAdd(ctx, p.xaddArgs(subject, data)).Err(); err != nil {
		return fmt.Errorf("failed to publish to stream %s: %w", p.streamName(subject), err)
	}
	return nil
}

// PublishBatch publishes multiple messages using a Redis pipeline
func (p *RedisPublisher) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	if len(messages) == 0 {
		return 0, nil
	}

	pipe := p.client.Pipeline()
	for _, msg := range messages {
		pipe.XAdd(ctx, p.xaddArgs(msg.Subject, msg.Data))
	}

	cmds, err := pipe.Exec(ctx)
	if err != nil && len(cmds) == 0 {
		return 0, fmt.Errorf("failed to execute batch publish: %w", err)
	}

	successCount := 0
	for _, cmd := range cmds {
		if cmd.Err() == nil {
			successCount++
		}
	}

	return successCount, nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
