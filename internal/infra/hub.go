package infra

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
)

// Hub is the in-process publish/subscribe bus for bettor events such as userLogin.
// Subscribers receive events on a buffered channel; a full buffer drops the event
// for that subscriber rather than blocking the publisher.
type Hub struct {
	mu     sync.RWMutex
	topics map[domain.EventType]map[string]*Subscription
	logger *slog.Logger
}

// Subscription is one listener on a topic.
type Subscription struct {
	ID    string
	Topic domain.EventType
	C     chan domain.Event
}

// NewHub creates a new event hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		topics: make(map[domain.EventType]map[string]*Subscription),
		logger: logger,
	}
}

// Subscribe registers a listener for one event type.
func (h *Hub) Subscribe(topic domain.EventType, buffer int) *Subscription {
	sub := &Subscription{
		ID:    uuid.NewString(),
		Topic: topic,
		C:     make(chan domain.Event, buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[string]*Subscription)
	}
	h.topics[topic][sub.ID] = sub
	return sub
}

// Unsubscribe removes a listener and closes its channel.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.topics[sub.Topic]
	if !ok {
		return
	}
	if _, ok := subs[sub.ID]; !ok {
		return
	}
	delete(subs, sub.ID)
	close(sub.C)
	if len(subs) == 0 {
		delete(h.topics, sub.Topic)
	}
}

// Publish delivers an event to every subscriber of its type.
func (h *Hub) Publish(evt domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.topics[evt.Type] {
		select {
		case sub.C <- evt:
		default:
			h.logger.Warn("event subscriber buffer full", "subscription", sub.ID, "event", evt.Type)
		}
	}
}

// SubscriberCount returns the number of listeners on a topic.
func (h *Hub) SubscriberCount(topic domain.EventType) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Shutdown closes every subscription.
func (h *Hub) Shutdown(_ context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, subs := range h.topics {
		for _, sub := range subs {
			close(sub.C)
		}
		delete(h.topics, topic)
	}
}
