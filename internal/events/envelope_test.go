package events

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

func testShipment() shipment.Shipment {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return shipment.Shipment{
		ID:                "0f1e2d3c-4b5a-6978-8899-aabbccddeeff",
		TrackingNumber:    "TRK0F1E2D3C4B",
		Customer:          shipment.Customer{Name: "Jane Roe"},
		Origin:            shipment.Address{City: "Denver"},
		Destination:       shipment.Address{City: "Boise"},
		Carrier:           "DHL",
		Weight:            3.5,
		Status:            shipment.StatusPending,
		CreatedAt:         created,
		EstimatedDelivery: created.Add(5 * 24 * time.Hour),
		Milestones:        []shipment.Milestone{{ID: "m0", Timestamp: created, Status: shipment.StatusPending}},
	}
}

func TestShipmentCreatedEnvelopeSchema(t *testing.T) {
	envelopeSchema := loadSchema(t, "ShipmentCreated.v1.enveloped.schema.json")
	payloadSchema := loadSchema(t, "ShipmentCreated.v1.payload.schema.json")

	validate := func(ev ShipmentCreatedEvent) error {
		body, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		var asMap map[string]any
		if err := json.Unmarshal(body, &asMap); err != nil {
			return err
		}
		for _, field := range requiredFields(envelopeSchema) {
			if _, ok := asMap[field]; !ok {
				return fmt.Errorf("missing required field %s", field)
			}
		}
		for _, field := range []string{"eventName", "eventVersion", "schema"} {
			if err := assertConst(envelopeSchema, asMap, field); err != nil {
				return err
			}
		}

		payloadMap, ok := asMap["payload"].(map[string]any)
		if !ok {
			return fmt.Errorf("missing payload object")
		}
		for _, field := range requiredFields(payloadSchema) {
			if _, ok := payloadMap[field]; !ok {
				return fmt.Errorf("missing payload field %s", field)
			}
		}
		return nil
	}

	s := testShipment()
	ev := newShipmentCreatedEvent(s, "cid-1", trackerServiceName, s.CreatedAt)
	require.NoError(t, validate(ev))
	require.NoError(t, ev.Validate(EventTypeShipmentCreated, 1))
	require.Equal(t, s.ID, ev.PartitionKey)
	require.Equal(t, "cid-1", ev.CorrelationID)
	require.Equal(t, s.TrackingNumber, ev.Payload.TrackingNumber)

	ev.EventName = "WrongEvent"
	require.Error(t, validate(ev))
	require.Error(t, ev.Validate(EventTypeShipmentCreated, 1))
}

func TestEnvelopeValidate(t *testing.T) {
	base := EventEnvelope{EventName: "ShipmentCreated", EventVersion: 1, EventID: "id", PartitionKey: "ship-1"}
	require.NoError(t, base.Validate("ShipmentCreated", 1))

	wrongVersion := base
	wrongVersion.EventVersion = 2
	require.Error(t, wrongVersion.Validate("ShipmentCreated", 1))

	noKey := base
	noKey.PartitionKey = ""
	require.Error(t, noKey.Validate("ShipmentCreated", 1))

	noID := base
	noID.EventID = ""
	require.Error(t, noID.Validate("ShipmentCreated", 1))
}

func loadSchema(t *testing.T, filename string) map[string]any {
	t.Helper()
	body, err := os.ReadFile(filepath.Join("contracts", filename))
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal(body, &schema))
	return schema
}

func requiredFields(schema map[string]any) []string {
	raw, _ := schema["required"].([]any)
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func assertConst(schema map[string]any, doc map[string]any, field string) error {
	props, _ := schema["properties"].(map[string]any)
	prop, _ := props[field].(map[string]any)
	want, ok := prop["const"]
	if !ok {
		return nil
	}
	if fmt.Sprint(doc[field]) != fmt.Sprint(want) {
		return fmt.Errorf("field %s: got %v, want %v", field, doc[field], want)
	}
	return nil
}
