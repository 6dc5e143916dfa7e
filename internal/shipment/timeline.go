package shipment

import (
	"errors"
	"slices"
	"time"
)

var ErrEmptyCollection = errors.New("shipment has no milestones")

// SortedDescending returns a new slice ordered most recent first. Equal
// timestamps keep their input order.
func SortedDescending(milestones []Milestone) []Milestone {
	out := slices.Clone(milestones)
	slices.SortStableFunc(out, func(a, b Milestone) int {
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

func LastUpdate(milestones []Milestone) (time.Time, error) {
	if len(milestones) == 0 {
		return time.Time{}, ErrEmptyCollection
	}
	latest := milestones[0].Timestamp
	for _, m := range milestones[1:] {
		if m.Timestamp.After(latest) {
			latest = m.Timestamp
		}
	}
	return latest, nil
}
