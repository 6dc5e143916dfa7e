// Package fixtures generates development shipments for the in-memory store.
package fixtures

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

const day = 24 * time.Hour

var (
	carriers = shipment.Carriers()
	cities   = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose"}
	states   = []string{"NY", "CA", "IL", "TX", "AZ", "PA", "TX", "CA", "TX", "CA"}
)

func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Generate builds count shipments relative to now. Every shipment satisfies
// shipment.Validate and its milestones match its status.
func Generate(count int, now time.Time, rnd *rand.Rand) []shipment.Shipment {
	statuses := shipment.Statuses()
	out := make([]shipment.Shipment, 0, count)

	for i := 0; i < count; i++ {
		status := statuses[rnd.IntN(len(statuses))]
		originIdx := rnd.IntN(len(cities))
		destIdx := rnd.IntN(len(cities))
		origin := cities[originIdx] + ", " + states[originIdx]
		dest := cities[destIdx] + ", " + states[destIdx]

		s := shipment.Shipment{
			ID:             fmt.Sprintf("ship-%d", i),
			TrackingNumber: fmt.Sprintf("TRK%d", 100000+i),
			Customer: shipment.Customer{
				Name:  fmt.Sprintf("Customer %d", i+1),
				Email: fmt.Sprintf("customer%d@example.com", i+1),
				Phone: fmt.Sprintf("555-%04d", 100+i),
			},
			Origin: shipment.Address{
				Address: fmt.Sprintf("%d Main St", 1000+i),
				City:    cities[originIdx],
				State:   states[originIdx],
				ZipCode: fmt.Sprintf("%d", 10000+i),
				Country: "USA",
			},
			Destination: shipment.Address{
				Address: fmt.Sprintf("%d Oak St", 2000+i),
				City:    cities[destIdx],
				State:   states[destIdx],
				ZipCode: fmt.Sprintf("%d", 20000+i),
				Country: "USA",
			},
			Carrier: carriers[rnd.IntN(len(carriers))],
			Weight:  float64(rnd.IntN(50) + 1),
			Dimensions: shipment.Dimensions{
				Length: float64(rnd.IntN(30) + 10),
				Width:  float64(rnd.IntN(20) + 5),
				Height: float64(rnd.IntN(15) + 5),
			},
			Status:            status,
			CreatedAt:         pastDate(now, rnd, 14),
			EstimatedDelivery: futureDate(now, rnd, 10),
			Description:       fmt.Sprintf("Shipment %d containing various items", i+1),
		}
		if status == shipment.StatusDelivered {
			delivered := pastDate(now, rnd, 2)
			s.ActualDelivery = &delivered
		}
		s.Milestones = milestones(i, status, origin, dest, now, rnd)
		out = append(out, s)
	}
	return out
}

func milestones(i int, status shipment.Status, origin, dest string, now time.Time, rnd *rand.Rand) []shipment.Milestone {
	id := func(n int) string { return fmt.Sprintf("ms-%d-%d", i, n) }

	ms := []shipment.Milestone{
		{
			ID:          id(0),
			Title:       "Order Placed",
			Timestamp:   pastDate(now, rnd, 14),
			Location:    origin,
			Description: "Shipment order was placed",
			Completed:   true,
			Status:      shipment.StatusPending,
		},
		{
			ID:          id(1),
			Title:       "Processing",
			Timestamp:   pastDate(now, rnd, 10),
			Location:    origin,
			Description: "Shipment is being processed",
			Completed:   status != shipment.StatusPending,
			Status:      shipment.StatusPending,
		},
	}

	if status != shipment.StatusPending {
		ms = append(ms, shipment.Milestone{
			ID:          id(2),
			Title:       "In Transit",
			Timestamp:   pastDate(now, rnd, 7),
			Location:    "Transit Hub",
			Description: "Shipment is in transit",
			Completed:   true,
			Status:      shipment.StatusInTransit,
		})
	}

	switch status {
	case shipment.StatusDelayed:
		ms = append(ms, shipment.Milestone{
			ID:          id(3),
			Title:       "Delivery Delayed",
			Timestamp:   pastDate(now, rnd, 3),
			Location:    dest,
			Description: "Delivery has been delayed",
			Completed:   true,
			Status:      shipment.StatusDelayed,
		})
	case shipment.StatusDelivered:
		ms = append(ms,
			shipment.Milestone{
				ID:          id(3),
				Title:       "Out for Delivery",
				Timestamp:   pastDate(now, rnd, 3),
				Location:    dest,
				Description: "Shipment is out for delivery",
				Completed:   true,
				Status:      shipment.StatusInTransit,
			},
			shipment.Milestone{
				ID:          id(4),
				Title:       "Delivered",
				Timestamp:   pastDate(now, rnd, 1),
				Location:    dest,
				Description: "Shipment has been delivered",
				Completed:   true,
				Status:      shipment.StatusDelivered,
			},
		)
	}
	return ms
}

func pastDate(now time.Time, rnd *rand.Rand, days int) time.Time {
	return now.Add(-time.Duration(rnd.IntN(days)) * day)
}

func futureDate(now time.Time, rnd *rand.Rand, days int) time.Time {
	return now.Add(time.Duration(rnd.IntN(days)) * day)
}
