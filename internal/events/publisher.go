package events

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

// NopPublisher drops every event. Used when EVENTS_DRIVER=none.
type NopPublisher struct{}

func (NopPublisher) PublishShipmentCreated(context.Context, shipment.Shipment) error { return nil }

type instrumented struct {
	next      shipment.EventPublisher
	published *prometheus.CounterVec
}

// Instrument counts publish outcomes under the "result" label ("ok" or "error").
func Instrument(next shipment.EventPublisher, published *prometheus.CounterVec) shipment.EventPublisher {
	return &instrumented{next: next, published: published}
}

func (p *instrumented) PublishShipmentCreated(ctx context.Context, s shipment.Shipment) error {
	err := p.next.PublishShipmentCreated(ctx, s)
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.published.WithLabelValues(result).Inc()
	return err
}
