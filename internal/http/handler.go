package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/andreasstove999/logistics-tracker/internal/auth"
	"github.com/andreasstove999/logistics-tracker/internal/logging"
	"github.com/andreasstove999/logistics-tracker/internal/metrics"
	"github.com/andreasstove999/logistics-tracker/internal/middleware"
	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 10 * time.Second
	maxBodyBytes = 1 << 20
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.LoginResponse, error)
}

type Handler struct {
	svc     *shipment.Service
	auth    Authenticator
	metrics *metrics.Metrics
	probes  []HealthProbe
	logger  zerolog.Logger
}

func NewHandler(svc *shipment.Service, authn Authenticator, m *metrics.Metrics, probes []HealthProbe, logger zerolog.Logger) *Handler {
	return &Handler{svc: svc, auth: authn, metrics: m, probes: probes, logger: logger}
}

type validationErrorResponse struct {
	middleware.ErrorResponse
	Fields map[string]string `json:"fields"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, middleware.ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.GetCorrelationID(r.Context()),
	})
}

// writeServiceError is the single place domain errors become status codes.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *shipment.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, validationErrorResponse{
			ErrorResponse: middleware.ErrorResponse{
				Error:         "invalid shipment",
				CorrelationID: middleware.GetCorrelationID(r.Context()),
			},
			Fields: verr.Fields,
		})
	case errors.Is(err, shipment.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "shipment not found")
	case errors.Is(err, shipment.ErrInvalidFilter), errors.Is(err, shipment.ErrInvalidShipment):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, shipment.ErrConflict):
		writeError(w, r, http.StatusConflict, "shipment already exists")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "request timed out")
	default:
		h.logger.Error().Err(err).
			Str(logging.CorrelationID, middleware.GetCorrelationID(r.Context())).
			Str(logging.Path, r.URL.Path).
			Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
