package httpapi

import (
	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

var badgeClasses = shipment.NewStatusTable(
	"bg-green-100 text-green-800 border-green-200",
	"bg-yellow-100 text-yellow-800 border-yellow-200",
	"bg-red-100 text-red-800 border-red-200",
	"bg-blue-100 text-blue-800 border-blue-200",
)

var timelineDotClasses = shipment.NewStatusTable(
	"bg-green-500",
	"bg-yellow-500",
	"bg-red-500",
	"bg-blue-500",
)

// incomplete milestones are drawn grey regardless of status
const pendingDotClass = "bg-gray-400"

type ShipmentView struct {
	shipment.Shipment
	StatusLabel string `json:"statusLabel"`
	BadgeClass  string `json:"badgeClass"`
}

func newShipmentView(s shipment.Shipment) ShipmentView {
	return ShipmentView{
		Shipment:    s,
		StatusLabel: s.Status.Label(),
		BadgeClass:  badgeClasses.For(s.Status),
	}
}

func newShipmentViews(ss []shipment.Shipment) []ShipmentView {
	out := make([]ShipmentView, len(ss))
	for i, s := range ss {
		out[i] = newShipmentView(s)
	}
	return out
}

type TimelineEntry struct {
	shipment.Milestone
	DotClass string `json:"dotClass"`
}

func newTimeline(ms []shipment.Milestone) []TimelineEntry {
	out := make([]TimelineEntry, len(ms))
	for i, m := range ms {
		dot := pendingDotClass
		if m.Completed {
			dot = timelineDotClasses.For(m.Status)
		}
		out[i] = TimelineEntry{Milestone: m, DotClass: dot}
	}
	return out
}

type StatusOption struct {
	Value      string `json:"value"`
	Label      string `json:"label"`
	BadgeClass string `json:"badgeClass,omitempty"`
}

func statusOptions() []StatusOption {
	statuses := shipment.Statuses()
	out := make([]StatusOption, 0, len(statuses)+1)
	out = append(out, StatusOption{Value: shipment.AllStatuses().String(), Label: "All Statuses"})
	for _, st := range statuses {
		out = append(out, StatusOption{Value: string(st), Label: st.Label(), BadgeClass: badgeClasses.For(st)})
	}
	return out
}
