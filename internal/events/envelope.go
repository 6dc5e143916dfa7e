package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

const (
	EventTypeShipmentCreated = "ShipmentCreated"
	shipmentCreatedSchema    = "contracts/ShipmentCreated.v1.payload.schema.json"
)

// EventEnvelope represents the shared envelope for v1 contracts.
type EventEnvelope struct {
	EventName     string    `json:"eventName"`
	EventVersion  int       `json:"eventVersion"`
	EventID       string    `json:"eventId"`
	CorrelationID string    `json:"correlationId,omitempty"`
	Producer      string    `json:"producer"`
	PartitionKey  string    `json:"partitionKey"`
	OccurredAt    time.Time `json:"occurredAt"`
	Schema        string    `json:"schema"`
}

func (e EventEnvelope) Validate(expectedName string, expectedVersion int) error {
	if e.EventName != expectedName {
		return fmt.Errorf("unexpected eventName %q", e.EventName)
	}
	if e.EventVersion != expectedVersion {
		return fmt.Errorf("unexpected eventVersion %d", e.EventVersion)
	}
	if e.PartitionKey == "" {
		return fmt.Errorf("missing partitionKey")
	}
	if e.EventID == "" {
		return fmt.Errorf("missing eventId")
	}
	return nil
}

type ShipmentCreatedPayload struct {
	ShipmentID        string          `json:"shipmentId"`
	TrackingNumber    string          `json:"trackingNumber"`
	Carrier           string          `json:"carrier"`
	Status            shipment.Status `json:"status"`
	CustomerName      string          `json:"customerName"`
	OriginCity        string          `json:"originCity"`
	DestinationCity   string          `json:"destinationCity"`
	Weight            float64         `json:"weight"`
	CreatedAt         time.Time       `json:"createdAt"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
}

type ShipmentCreatedEvent struct {
	EventEnvelope
	Payload ShipmentCreatedPayload `json:"payload"`
}

func newShipmentCreatedEvent(s shipment.Shipment, correlationID, producer string, occurredAt time.Time) ShipmentCreatedEvent {
	return ShipmentCreatedEvent{
		EventEnvelope: EventEnvelope{
			EventName:     EventTypeShipmentCreated,
			EventVersion:  1,
			EventID:       uuid.NewString(),
			CorrelationID: correlationID,
			Producer:      producer,
			PartitionKey:  s.ID,
			OccurredAt:    occurredAt,
			Schema:        shipmentCreatedSchema,
		},
		Payload: ShipmentCreatedPayload{
			ShipmentID:        s.ID,
			TrackingNumber:    s.TrackingNumber,
			Carrier:           s.Carrier,
			Status:            s.Status,
			CustomerName:      s.Customer.Name,
			OriginCity:        s.Origin.City,
			DestinationCity:   s.Destination.City,
			Weight:            s.Weight,
			CreatedAt:         s.CreatedAt,
			EstimatedDelivery: s.EstimatedDelivery,
		},
	}
}
