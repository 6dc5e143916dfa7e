package shipment

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("shipment not found")

func FindByID(shipments []Shipment, id string) (Shipment, error) {
	for _, s := range shipments {
		if s.ID == id {
			return s, nil
		}
	}
	return Shipment{}, ErrNotFound
}

type LookupState int

const (
	LookupLoading LookupState = iota
	LookupFound
	LookupNotFound
)

func (s LookupState) String() string {
	switch s {
	case LookupLoading:
		return "loading"
	case LookupFound:
		return "found"
	case LookupNotFound:
		return "not-found"
	default:
		return "unknown"
	}
}

// LookupResult is only meaningful with State == LookupFound for Shipment.
// Err is set when the source failed for a reason other than a missing id.
type LookupResult struct {
	State    LookupState
	Shipment Shipment
	Err      error
}

type Getter interface {
	Get(ctx context.Context, id string) (Shipment, error)
}

// ResolveAsync looks the shipment up after delay and sends exactly one
// terminal result. If ctx ends first the channel is closed without a value.
func ResolveAsync(ctx context.Context, src Getter, id string, delay time.Duration) <-chan LookupResult {
	out := make(chan LookupResult, 1)
	go func() {
		defer close(out)

		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
		}

		s, err := src.Get(ctx, id)
		if ctx.Err() != nil {
			return
		}

		var res LookupResult
		switch {
		case err == nil:
			res = LookupResult{State: LookupFound, Shipment: s}
		case errors.Is(err, ErrNotFound):
			res = LookupResult{State: LookupNotFound}
		default:
			res = LookupResult{State: LookupNotFound, Err: err}
		}
		out <- res
	}()
	return out
}
