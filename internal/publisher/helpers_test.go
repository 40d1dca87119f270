package publisher

import "github.com/nats-io/nats.go"

// Test-only helpers while constructors are unexported.

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	return newNATSPublisher(url, "")
}

func NewNATSPublisherWithConn(conn *nats.Conn) *NATSPublisher {
	return newNATSPublisherWithConn(conn)
}

func NewRedisPublisher(cfg RedisConfig) (*RedisPublisher, error) {
	return newRedisPublisher(cfg)
}

func NewKafkaPublisher(cfg KafkaConfig) (*KafkaPublisher, error) {
	return newKafkaPublisher(cfg)
}

func NewMemoryPublisher(buffer int) *MemoryPublisher {
	return newMemoryPublisher(buffer)
}
