package shipment

import "fmt"

// Summarize panics on a status outside the closed set so the per-status
// counts always add up to the total.
func Summarize(shipments []Shipment) Summary {
	sum := Summary{TotalShipments: len(shipments)}
	for _, s := range shipments {
		switch s.Status {
		case StatusDelivered:
			sum.Delivered++
		case StatusInTransit:
			sum.InTransit++
		case StatusDelayed:
			sum.Delayed++
		case StatusPending:
			sum.Pending++
		default:
			panic(fmt.Sprintf("shipment: unmapped status %q", string(s.Status)))
		}
	}
	return sum
}

func (s Summary) Count(status Status) int {
	return NewStatusTable(s.Delivered, s.InTransit, s.Delayed, s.Pending).For(status)
}

type ChartPoint struct {
	Status Status `json:"status"`
	Name   string `json:"name"`
	Value  int    `json:"value"`
	Color  string `json:"color"`
}

var chartColors = NewStatusTable("#22c55e", "#eab308", "#ef4444", "#3b82f6")

// ChartSeries lays the summary out as bars for the status chart.
func ChartSeries(sum Summary) []ChartPoint {
	statuses := Statuses()
	out := make([]ChartPoint, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, ChartPoint{
			Status: st,
			Name:   st.Label(),
			Value:  sum.Count(st),
			Color:  chartColors.For(st),
		})
	}
	return out
}
