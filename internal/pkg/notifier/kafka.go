package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/anicoll/forecast-service/internal/pkg/model"
)

// Kafka publishes position-change events to a single topic. Delivery is
// best-effort and asynchronous: Notify enqueues and returns, transmission
// completes out of band and failures surface only through the completion
// callback, where they are logged and dropped. An event enqueued but not yet
// flushed is lost on crash.
type Kafka struct {
	writer *kafka.Writer
	logger *zap.Logger
}

type KafkaOptions struct {
	Brokers      []string
	Topic        string
	RequiredAcks int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

func NewKafka(opts KafkaOptions) *Kafka {
	n := &Kafka{
		logger: zap.L(),
	}
	n.writer = &kafka.Writer{
		Addr:         kafka.TCP(opts.Brokers...),
		Topic:        opts.Topic,
		Balancer:     &kafka.Hash{}, // partition by key (plant_id)
		RequiredAcks: kafka.RequiredAcks(opts.RequiredAcks),
		Async:        true,
		BatchTimeout: opts.BatchTimeout,
		WriteTimeout: opts.WriteTimeout,
		Completion:   n.onDelivery,
	}
	return n
}

// Notify enqueues the event. It returns an error only when the enqueue
// itself fails; delivery outcome is never visible to the caller.
func (n *Kafka) Notify(ctx context.Context, event model.PositionChangedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", model.ErrNotify, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.PlantID),
		Value: payload,
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: enqueue event: %v", model.ErrNotify, err)
	}
	return nil
}

func (n *Kafka) onDelivery(messages []kafka.Message, err error) {
	if err == nil {
		return
	}
	for _, msg := range messages {
		n.logger.Error("position change event delivery failed",
			zap.ByteString("plant_id", msg.Key),
			zap.Error(err))
	}
}

// Close flushes pending events and releases the writer. Called once at
// shutdown.
func (n *Kafka) Close() error {
	return n.writer.Close()
}
