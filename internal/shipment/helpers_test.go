package shipment

import (
	"fmt"
	"time"
)

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time { return baseTime.Add(time.Duration(n) * 24 * time.Hour) }

func newTestShipment(id, tracking, customer, city string, status Status) Shipment {
	s := Shipment{
		ID:             id,
		TrackingNumber: tracking,
		Customer:       Customer{Name: customer, Email: "c@example.com", Phone: "555-0100"},
		Origin:         Address{Address: "1 Main St", City: "Chicago", State: "IL", ZipCode: "60601", Country: "USA"},
		Destination:    Address{Address: "2 Oak St", City: city, State: "TX", ZipCode: "75001", Country: "USA"},
		Carrier:        "UPS",
		Weight:         12,
		Dimensions:     Dimensions{Length: 10, Width: 5, Height: 5},
		Status:         status,
		CreatedAt:      day(0),
		Milestones: []Milestone{
			{ID: fmt.Sprintf("%s-0", id), Title: "Order Placed", Timestamp: day(1), Completed: true, Status: StatusPending},
			{ID: fmt.Sprintf("%s-1", id), Title: "Processing", Timestamp: day(2), Completed: true, Status: StatusPending},
		},
	}
	if status == StatusDelivered {
		d := day(3)
		s.ActualDelivery = &d
	}
	return s
}

func sampleShipments() []Shipment {
	return []Shipment{
		newTestShipment("ship-0", "TRK100000", "Customer 1", "Dallas", StatusDelivered),
		newTestShipment("ship-1", "TRK100001", "Customer 2", "San Jose", StatusInTransit),
		newTestShipment("ship-2", "TRK100002", "Acme Corp", "Houston", StatusDelayed),
		newTestShipment("ship-3", "TRK100003", "Customer 4", "New York", StatusPending),
		newTestShipment("ship-4", "TRK100004", "Customer 5", "San Diego", StatusInTransit),
		newTestShipment("ship-5", "TRK100005", "Customer 6", "Phoenix", StatusPending),
	}
}
