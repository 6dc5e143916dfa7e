package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

func (h *Handler) Statuses(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusOptions())
}

func (h *Handler) ListShipments(w http.ResponseWriter, r *http.Request) {
	filter, err := shipment.ParseStatusFilter(r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	list, err := h.svc.List(ctx, shipment.Query{Search: r.URL.Query().Get("search"), Status: filter})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newShipmentViews(list))
}

func (h *Handler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	var in shipment.CreateInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), writeTimeout)
	defer cancel()

	created, err := h.svc.Create(ctx, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/shipments/"+created.ID)
	writeJSON(w, http.StatusCreated, newShipmentView(created))
}

type detailResponse struct {
	Shipment   ShipmentView    `json:"shipment"`
	Timeline   []TimelineEntry `json:"timeline"`
	LastUpdate time.Time       `json:"lastUpdate"`
}

func (h *Handler) GetShipment(w http.ResponseWriter, r *http.Request) {
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, detailResponse{
		Shipment:   newShipmentView(d.Shipment),
		Timeline:   newTimeline(d.Timeline),
		LastUpdate: d.LastUpdate,
	})
}

func (h *Handler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	d, ok := h.detail(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newTimeline(d.Timeline))
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) (shipment.Detail, bool) {
	ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
	defer cancel()

	d, err := h.svc.Detail(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return shipment.Detail{}, false
	}
	return d, true
}
