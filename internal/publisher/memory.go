package publisher

import (
	"context"
	"fmt"
	"sync"
)

// MemoryPublisher keeps published messages in per-subject buffered channels.
// Used in development and by tests that inspect what a refresh emitted.
// A full channel drops its oldest message, so the buffer always holds the latest snapshots.
type MemoryPublisher struct {
	channels map[string]chan []byte
	buffer   int
	closed   bool
	mu       sync.RWMutex
}

// newMemoryPublisher creates a new in-memory publisher
func newMemoryPublisher(buffer int) *MemoryPublisher {
	if buffer <= 0 {
		buffer = 1
	}
	return &MemoryPublisher{
		channels: make(map[string]chan []byte),
		buffer:   buffer,
	}
}

// getOrCreateChannel returns existing channel or creates new one. Caller holds mu.
func (p *MemoryPublisher) getOrCreateChannel(subject string) chan []byte {
	if ch, exists := p.channels[subject]; exists {
		return ch
	}

	ch := make(chan []byte, p.buffer)
	p.channels[subject] = ch
	return ch
}

// Publish publishes a message to an in-memory channel. The lock is held for the
// send so Close cannot close the channel underneath it.
func (p *MemoryPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publisher closed")
	}
	ch := p.getOrCreateChannel(subject)

	// only Drain can race with this loop and it only takes messages out
	for {
		select {
		case ch <- dataCopy:
			return nil
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// PublishBatch publishes multiple messages
func (p *MemoryPublisher) PublishBatch(ctx context.Context, messages []BatchMessage) (int, error) {
	successCount := 0

	for _, msg := range messages {
		if err := p.Publish(ctx, msg.Subject, msg.Data); err != nil {
			continue
		}
		successCount++
	}

	return successCount, nil
}

// Drain removes and returns every pending message for a subject
func (p *MemoryPublisher) Drain(subject string) [][]byte {
	p.mu.RLock()
	ch, exists := p.channels[subject]
	p.mu.RUnlock()
	if !exists {
		return nil
	}

	var out [][]byte
	for {
		select {
		case data, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, data)
		default:
			return out
		}
	}
}

// GetPendingCount returns the number of pending messages for a subject
func (p *MemoryPublisher) GetPendingCount(subject string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if ch, exists := p.channels[subject]; exists {
		return len(ch)
	}
	return 0
}

// Close closes all channels
func (p *MemoryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for subject, ch := range p.channels {
		close(ch)
		delete(p.channels, subject)
	}

	return nil
}
