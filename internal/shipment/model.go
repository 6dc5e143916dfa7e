package shipment

import (
	"errors"
	"fmt"
	"time"
)

type Address struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Milestone is one tracking event. Producers may hand milestones over in any
// order; use SortedDescending before rendering a timeline.
type Milestone struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	Status      Status    `json:"status"`
}

type Shipment struct {
	ID                string      `json:"id"`
	TrackingNumber    string      `json:"trackingNumber"`
	Customer          Customer    `json:"customer"`
	Origin            Address     `json:"origin"`
	Destination       Address     `json:"destination"`
	Carrier           string      `json:"carrier"`
	Weight            float64     `json:"weight"`
	Dimensions        Dimensions  `json:"dimensions"`
	Status            Status      `json:"status"`
	CreatedAt         time.Time   `json:"createdAt"`
	EstimatedDelivery time.Time   `json:"estimatedDelivery"`
	ActualDelivery    *time.Time  `json:"actualDelivery,omitempty"`
	Description       string      `json:"description"`
	Milestones        []Milestone `json:"milestones"`
}

// Summary is derived from a shipment collection and never stored.
type Summary struct {
	TotalShipments int `json:"totalShipments"`
	Delivered      int `json:"delivered"`
	InTransit      int `json:"inTransit"`
	Delayed        int `json:"delayed"`
	Pending        int `json:"pending"`
}

var ErrInvalidShipment = errors.New("invalid shipment")

// Validate checks the invariants every listed or detailed shipment must hold.
func (s Shipment) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidShipment)
	}
	if !s.Status.Valid() {
		return fmt.Errorf("%w: %s: %w", ErrInvalidShipment, s.ID, ErrInvalidStatus)
	}
	if len(s.Milestones) == 0 {
		return fmt.Errorf("%w: %s: %w", ErrInvalidShipment, s.ID, ErrEmptyCollection)
	}
	if (s.Status == StatusDelivered) != (s.ActualDelivery != nil) {
		return fmt.Errorf("%w: %s: actual delivery must be set only for delivered shipments", ErrInvalidShipment, s.ID)
	}

	seen := make(map[string]struct{}, len(s.Milestones))
	for _, m := range s.Milestones {
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("%w: %s: duplicate milestone id %q", ErrInvalidShipment, s.ID, m.ID)
		}
		seen[m.ID] = struct{}{}
		if !m.Status.Valid() {
			return fmt.Errorf("%w: %s: milestone %q: %w", ErrInvalidShipment, s.ID, m.ID, ErrInvalidStatus)
		}
	}
	return nil
}

// Clone returns a deep copy so stores can hand out snapshots safely.
func (s Shipment) Clone() Shipment {
	out := s
	if s.ActualDelivery != nil {
		t := *s.ActualDelivery
		out.ActualDelivery = &t
	}
	out.Milestones = append([]Milestone(nil), s.Milestones...)
	return out
}

func cloneAll(in []Shipment) []Shipment {
	out := make([]Shipment, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
