package shipment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortedDescending(t *testing.T) {
	input := []Milestone{
		{ID: "d1", Timestamp: day(1)},
		{ID: "d3", Timestamp: day(3)},
		{ID: "d2", Timestamp: day(2)},
	}

	got := SortedDescending(input)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"d3", "d2", "d1"}, milestoneIDs(got))
	assert.Equal(t, []string{"d1", "d3", "d2"}, milestoneIDs(input), "input must not be reordered")

	last, err := LastUpdate(input)
	require.NoError(t, err)
	assert.True(t, last.Equal(day(3)))
}

func TestSortedDescendingKeepsInputOrderOnTies(t *testing.T) {
	input := []Milestone{
		{ID: "a", Timestamp: day(2)},
		{ID: "b", Timestamp: day(5)},
		{ID: "c", Timestamp: day(2)},
		{ID: "d", Timestamp: day(5)},
	}

	assert.Equal(t, []string{"b", "d", "a", "c"}, milestoneIDs(SortedDescending(input)))
}

func TestSortedDescendingIsNonIncreasingPermutation(t *testing.T) {
	for _, s := range sampleShipments() {
		s.Milestones = append(s.Milestones, Milestone{ID: s.ID + "-x", Timestamp: day(-4)})
		got := SortedDescending(s.Milestones)

		assert.ElementsMatch(t, s.Milestones, got)
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].Timestamp.After(got[i-1].Timestamp))
		}

		last, err := LastUpdate(s.Milestones)
		require.NoError(t, err)
		assert.True(t, last.Equal(got[0].Timestamp))
	}
}

func TestLastUpdateEmpty(t *testing.T) {
	_, err := LastUpdate(nil)
	assert.ErrorIs(t, err, ErrEmptyCollection)
}

func milestoneIDs(ms []Milestone) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}
