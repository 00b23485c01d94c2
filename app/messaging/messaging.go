package messaging

import (
	"context"
	"encoding/json"
	"sync"
)

const (
	TopicOrderPlaced     = "orders.placed"
	TopicContactMessages = "contact.messages"
)

// Publisher publishes events to a message broker.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, key string, event any) error
}

type noopPublisher struct{}

// NewNoopPublisher drops every event. Used when no broker is configured.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishEvent(context.Context, string, string, any) error {
	return nil
}

// Message is one event captured by a Recorder.
type Message struct {
	Topic   string
	Key     string
	Payload []byte
}

// Recorder keeps published events in memory, encoded the same way the
// broker publisher encodes them.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (r *Recorder) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.messages = append(r.messages, Message{Topic: topic, Key: key, Payload: payload})
	return nil
}

func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
