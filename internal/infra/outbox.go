package infra

import (
	"context"
	"log/slog"

	"github.com/matka/platform/internal/domain"
)

// Publisher is the outbound side of the relay; KafkaProducer implements it.
type Publisher interface {
	PublishEvent(ctx context.Context, topic string, evt domain.Event) error
}

// EventRelay forwards hub events to an external broker so other services (the
// admin dashboard, notifications) see wallet and placement activity.
type EventRelay struct {
	hub       *Hub
	publisher Publisher
	prefix    string
	logger    *slog.Logger
	types     []domain.EventType
}

// NewEventRelay creates a relay for the given event types. Topics are named
// "<prefix>.<eventType>".
func NewEventRelay(hub *Hub, publisher Publisher, prefix string, logger *slog.Logger, types ...domain.EventType) *EventRelay {
	return &EventRelay{
		hub:       hub,
		publisher: publisher,
		prefix:    prefix,
		logger:    logger,
		types:     types,
	}
}

// Start subscribes to the hub and forwards events until ctx is cancelled.
func (r *EventRelay) Start(ctx context.Context) {
	r.logger.Info("event relay started", "prefix", r.prefix, "types", r.types)

	for _, t := range r.types {
		sub := r.hub.Subscribe(t, 64)
		go r.forward(ctx, sub)
	}
}

func (r *EventRelay) forward(ctx context.Context, sub *Subscription) {
	defer r.hub.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-sub.C:
			if !ok {
				return
			}
			r.relay(ctx, evt)
		}
	}
}

func (r *EventRelay) relay(ctx context.Context, evt domain.Event) {
	topic := r.prefix + "." + string(evt.Type)
	if err := r.publisher.PublishEvent(ctx, topic, evt); err != nil {
		r.logger.Error("event publish failed", "event_id", evt.EventID, "topic", topic, "error", err)
		return
	}
	r.logger.Debug("event relayed", "event_id", evt.EventID, "topic", topic)
}
