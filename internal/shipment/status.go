package shipment

import (
	"encoding/json"
	"errors"
	"fmt"
)

type Status string

const (
	StatusDelivered Status = "delivered"
	StatusInTransit Status = "in-transit"
	StatusDelayed   Status = "delayed"
	StatusPending   Status = "pending"
)

var ErrInvalidStatus = errors.New("invalid shipment status")

// Statuses returns the closed status set in dashboard order.
func Statuses() []Status {
	return []Status{StatusDelivered, StatusInTransit, StatusDelayed, StatusPending}
}

func ParseStatus(v string) (Status, error) {
	switch s := Status(v); s {
	case StatusDelivered, StatusInTransit, StatusDelayed, StatusPending:
		return s, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, v)
	}
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

func (s Status) Label() string {
	return statusLabels.For(s)
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StatusTable maps every status to a value of T. It can only be built through
// NewStatusTable, so a new status breaks every table until it gets a value.
type StatusTable[T any] struct {
	delivered T
	inTransit T
	delayed   T
	pending   T
}

func NewStatusTable[T any](delivered, inTransit, delayed, pending T) StatusTable[T] {
	return StatusTable[T]{
		delivered: delivered,
		inTransit: inTransit,
		delayed:   delayed,
		pending:   pending,
	}
}

// For panics on a status outside the closed set; statuses are validated at
// every entry point so reaching the panic means a programming error.
func (t StatusTable[T]) For(s Status) T {
	switch s {
	case StatusDelivered:
		return t.delivered
	case StatusInTransit:
		return t.inTransit
	case StatusDelayed:
		return t.delayed
	case StatusPending:
		return t.pending
	default:
		panic(fmt.Sprintf("shipment: unmapped status %q", string(s)))
	}
}

var statusLabels = NewStatusTable("Delivered", "In Transit", "Delayed", "Pending")
