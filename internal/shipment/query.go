package shipment

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidFilter = errors.New("invalid status filter")

const statusFilterAll = "all"

// StatusFilter is either "all" or exactly one status. The zero value is "all".
type StatusFilter struct {
	status Status
}

func AllStatuses() StatusFilter { return StatusFilter{} }

func OnlyStatus(s Status) StatusFilter { return StatusFilter{status: s} }

// ParseStatusFilter accepts "", "all" or a known status. Unknown values are
// rejected rather than widened to "all".
func ParseStatusFilter(v string) (StatusFilter, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == statusFilterAll {
		return AllStatuses(), nil
	}
	s, err := ParseStatus(v)
	if err != nil {
		return StatusFilter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, v)
	}
	return OnlyStatus(s), nil
}

func (f StatusFilter) IsAll() bool { return f.status == "" }

func (f StatusFilter) String() string {
	if f.IsAll() {
		return statusFilterAll
	}
	return string(f.status)
}

func (f StatusFilter) Matches(s Status) bool {
	return f.IsAll() || f.status == s
}

type Query struct {
	Search string
	Status StatusFilter
}

// Filter keeps shipments matching both the search term and the status filter,
// in input order. The input slice is not modified.
func Filter(shipments []Shipment, searchTerm string, statusFilter StatusFilter) []Shipment {
	term := strings.ToLower(searchTerm)
	out := make([]Shipment, 0, len(shipments))
	for _, s := range shipments {
		if matchesSearch(s, term) && statusFilter.Matches(s.Status) {
			out = append(out, s)
		}
	}
	return out
}

func matchesSearch(s Shipment, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.TrackingNumber), term) ||
		strings.Contains(strings.ToLower(s.Customer.Name), term) ||
		strings.Contains(strings.ToLower(s.Destination.City), term)
}
