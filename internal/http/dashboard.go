package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) (shipment.Summary, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	sum, err := h.svc.Summary(ctx)
	if err != nil {
		h.writeServiceError(w, r, err)
		return shipment.Summary{}, false
	}
	if h.metrics != nil {
		h.metrics.ObserveSummary(sum)
	}
	return sum, true
}

func (h *Handler) DashboardSummary(w http.ResponseWriter, r *http.Request) {
	sum, ok := h.summary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) DashboardChart(w http.ResponseWriter, r *http.Request) {
	sum, ok := h.summary(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, shipment.ChartSeries(sum))
}

func (h *Handler) RecentShipments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	recent, err := h.svc.Recent(ctx, limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newShipmentViews(recent))
}
