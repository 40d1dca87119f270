package utils

import "time"

// =============================================================================
// Refresh Constants
// =============================================================================

const (
	// DefaultPollInterval is how often the poller runs a refresh cycle
	DefaultPollInterval = 5 * time.Minute

	// DefaultRefreshConcurrency is the number of metrics refreshed in parallel
	DefaultRefreshConcurrency = 4

	// DefaultRefreshTimeout bounds a single refresh cycle
	DefaultRefreshTimeout = 30 * time.Second

	// DefaultCacheTTL is how long a computed snapshot is served from cache
	DefaultCacheTTL = time.Minute

	// CacheCleanupInterval is the sweep interval of the in-memory cache
	CacheCleanupInterval = time.Minute
)

// =============================================================================
// Connection Constants
// =============================================================================

const (
	// DialTimeout is the timeout for establishing broker and cache connections
	DialTimeout = 5 * time.Second

	// DefaultPublishBuffer is the per-subject buffer of the in-memory publisher
	DefaultPublishBuffer = 1000
)

// =============================================================================
// Subject and Key Constants
// =============================================================================

const (
	// SnapshotSubjectPrefix prefixes the subject a metric snapshot is published on
	SnapshotSubjectPrefix = "kpi"

	// DefaultKeyPrefix prefixes Redis cache keys and stream names
	DefaultKeyPrefix = "citemind"
)

// =============================================================================
// Backend Type Constants
// =============================================================================

// SourceType represents where raw metric series are read from
type SourceType string

const (
	// SourceTypeMock generates synthetic series (development)
	SourceTypeMock SourceType = "mock"

	// SourceTypeCSV reads one CSV file per metric
	SourceTypeCSV SourceType = "csv"
)

// CacheType represents the snapshot cache backend
type CacheType string

const (
	// CacheTypeNone disables caching
	CacheTypeNone CacheType = "none"

	// CacheTypeMemory represents the in-process TTL cache (default)
	CacheTypeMemory CacheType = "memory"

	// CacheTypeRedis represents a shared Redis cache
	CacheTypeRedis CacheType = "redis"
)

// PublisherType represents the snapshot fan-out backend
type PublisherType string

const (
	// PublisherTypeNone disables publishing (default)
	PublisherTypeNone PublisherType = "none"

	// PublisherTypeMemory represents in-memory channels (for testing)
	PublisherTypeMemory PublisherType = "memory"

	// PublisherTypeRedis represents Redis Streams
	PublisherTypeRedis PublisherType = "redis"

	// PublisherTypeNATS represents core NATS subjects
	PublisherTypeNATS PublisherType = "nats"

	// PublisherTypeKafka represents Apache Kafka topics
	PublisherTypeKafka PublisherType = "kafka"
)
