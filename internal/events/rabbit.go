package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/andreasstove999/logistics-tracker/internal/middleware"
	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

// channel is the part of *amqp.Channel the publisher needs.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type RabbitPublisher struct {
	ch       channel
	producer string
	now      func() time.Time
}

var _ shipment.EventPublisher = (*RabbitPublisher)(nil)

func NewRabbitPublisher(conn *amqp.Connection) (*RabbitPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}

	return newRabbitPublisher(ch), nil
}

func newRabbitPublisher(ch channel) *RabbitPublisher {
	return &RabbitPublisher{
		ch:       ch,
		producer: trackerServiceName,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (p *RabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *RabbitPublisher) PublishShipmentCreated(ctx context.Context, s shipment.Shipment) error {
	cid := middleware.GetCorrelationID(ctx)
	env := newShipmentCreatedEvent(s, cid, p.producer, p.now())
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal ShipmentCreated envelope: %w", err)
	}

	return p.publishJSON(ctx, ShipmentCreatedRoutingKey, env.EventID, cid, body)
}

func (p *RabbitPublisher) publishJSON(ctx context.Context, routingKey, messageID, correlationID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Persistent,
			MessageId:     messageID,
			CorrelationId: correlationID,
			Timestamp:     p.now(),
			Body:          body,
		},
	)
}
