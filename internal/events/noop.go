package events

import (
	"context"
	"sync"
)

// NoopPublisher is a Publisher that does nothing (used when NATS is not configured).
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}

// Recorded is one event captured by a RecordingPublisher.
type Recorded struct {
	Topic string
	Event any
}

// RecordingPublisher keeps every published event in memory and forwards it
// to Next when set.
type RecordingPublisher struct {
	Next Publisher

	mu     sync.Mutex
	events []Recorded
}

func (r *RecordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	r.mu.Lock()
	r.events = append(r.events, Recorded{Topic: topic, Event: event})
	r.mu.Unlock()
	if r.Next != nil {
		return r.Next.Publish(ctx, topic, event)
	}
	return nil
}

func (r *RecordingPublisher) Close() error {
	if r.Next != nil {
		return r.Next.Close()
	}
	return nil
}

// Events returns a copy of the recorded events in publish order.
func (r *RecordingPublisher) Events() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Recorded(nil), r.events...)
}

// Topics returns the recorded topics in publish order.
func (r *RecordingPublisher) Topics() []string {
	events := r.Events()
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Topic
	}
	return out
}
