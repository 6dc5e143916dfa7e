package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/andreasstove999/logistics-tracker/internal/middleware"
	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

// Writer defines the subset of segmentio kafka.Writer we need. This makes the producer testable.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer   Writer
	producer string
	now      func() time.Time
}

var _ shipment.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher writes to topic on the given brokers. Messages for the
// same shipment land on the same partition.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewKafkaPublisherWithWriter(w)
}

// NewKafkaPublisherWithWriter allows injecting a test writer.
func NewKafkaPublisherWithWriter(w Writer) *KafkaPublisher {
	return &KafkaPublisher{
		writer:   w,
		producer: trackerServiceName,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (p *KafkaPublisher) PublishShipmentCreated(ctx context.Context, s shipment.Shipment) error {
	env := newShipmentCreatedEvent(s, middleware.GetCorrelationID(ctx), p.producer, p.now())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal ShipmentCreated envelope: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(env.PartitionKey),
		Value: body,
		Headers: []kafka.Header{
			{Key: "eventName", Value: []byte(env.EventName)},
			{Key: "eventVersion", Value: []byte("1")},
			{Key: middleware.HeaderCorrelationID, Value: []byte(env.CorrelationID)},
		},
		Time: env.OccurredAt,
	}
	if err := p.writer.WriteMessages(pubCtx, msg); err != nil {
		return fmt.Errorf("kafka write: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
