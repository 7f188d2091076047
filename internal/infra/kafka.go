package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/matka/platform/internal/domain"
	"github.com/segmentio/kafka-go"
)

// KafkaProducer writes bettor events to Kafka, one topic per event type.
type KafkaProducer struct {
	writer  *kafka.Writer
	logger  *slog.Logger
	enabled bool
}

// NewKafkaProducer creates a producer for a comma separated broker list. A disabled
// producer or an empty broker list gives a producer whose writes are no-ops.
func NewKafkaProducer(brokers string, enabled bool, logger *slog.Logger) *KafkaProducer {
	if !enabled || strings.TrimSpace(brokers) == "" {
		logger.Info("kafka relay disabled")
		return &KafkaProducer{logger: logger}
	}

	w := &kafka.Writer{
		Addr: kafka.TCP(strings.Split(brokers, ",")...),
		// keyed by user or market so one bettor's events stay ordered
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("kafka relay initialized", "brokers", brokers)
	return &KafkaProducer{writer: w, logger: logger, enabled: true}
}

// Enabled reports whether messages are actually sent.
func (p *KafkaProducer) Enabled() bool { return p.enabled }

// PublishEvent writes evt to topic, keyed by the event key. The event type and id
// travel as headers so consumers can route without decoding the body.
func (p *KafkaProducer) PublishEvent(ctx context.Context, topic string, evt domain.Event) error {
	if !p.enabled {
		return nil
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", evt.EventID, err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(evt.Key),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(evt.Type)},
			{Key: "event-id", Value: []byte(evt.EventID.String())},
		},
	})
}

// Close flushes pending writes and shuts down the writer.
func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
