package publisher

import (
	"context"
	"net"
	"os"
	"testing"
	"time"
)

// Test helper: get Kafka broker from env or default
func getKafkaBroker() string {
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		return broker
	}
	return "localhost:9092"
}

// Test helper: check if Kafka is available
func isKafkaAvailable() bool {
	conn, err := net.DialTimeout("tcp", getKafkaBroker(), 2*time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

func TestNewKafkaPublisher_NoBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{})
	if err == nil {
		t.Fatal("Expected error without brokers")
	}
}

func TestNewKafkaPublisher_Defaults(t *testing.T) {
	p, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("Failed to create Kafka publisher: %v", err)
	}
	defer func() { _ = p.Close() }()

	if p.config.BatchSize != 100 {
		t.Errorf("Expected default batch size 100, got %d", p.config.BatchSize)
	}
	if p.config.BatchTimeout != 10*time.Millisecond {
		t.Errorf("Expected default batch timeout 10ms, got %v", p.config.BatchTimeout)
	}
	if p.config.RequiredAcks != 1 {
		t.Errorf("Expected default required acks 1, got %d", p.config.RequiredAcks)
	}
	if p.config.MaxRetries != 3 {
		t.Errorf("Expected default max retries 3, got %d", p.config.MaxRetries)
	}
}

func TestKafkaPublisher_WriterPerTopic(t *testing.T) {
	p, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("Failed to create Kafka publisher: %v", err)
	}
	defer func() { _ = p.Close() }()

	w1 := p.getOrCreateWriter(topicName("kpi.citations"))
	w2 := p.getOrCreateWriter(topicName("kpi.citations"))
	w3 := p.getOrCreateWriter(topicName("kpi.media_mentions"))

	if w1 != w2 {
		t.Error("Expected writer to be reused for the same topic")
	}
	if w1 == w3 {
		t.Error("Expected distinct writers for distinct topics")
	}
	if w1.Topic != "kpi-citations" {
		t.Errorf("Expected topic kpi-citations, got %s", w1.Topic)
	}
}

func TestKafkaPublisher_Publish(t *testing.T) {
	if !isKafkaAvailable() {
		t.Skip("Kafka not available, skipping test")
	}

	p, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{getKafkaBroker()}})
	if err != nil {
		t.Fatalf("Failed to create Kafka publisher: %v", err)
	}
	defer func() { _ = p.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := p.Publish(ctx, "kpi.test_citations", []byte("snapshot")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	count, err := p.PublishBatch(ctx, []BatchMessage{
		{Subject: "kpi.test_citations", Data: []byte("1")},
		{Subject: "kpi.test_mentions", Data: []byte("2")},
	})
	if err != nil {
		t.Fatalf("PublishBatch failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 published, got %d", count)
	}
}
