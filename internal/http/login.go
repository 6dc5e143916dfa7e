package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/andreasstove999/logistics-tracker/internal/auth"
	"github.com/andreasstove999/logistics-tracker/internal/logging"
	"github.com/andreasstove999/logistics-tracker/internal/metrics"
	"github.com/andreasstove999/logistics-tracker/internal/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		h.observeLogin(metrics.LoginSuccess)
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.observeLogin(metrics.LoginInvalid)
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrAuthFailure):
		h.observeLogin(metrics.LoginRejected)
		h.logger.Warn().Err(err).
			Str(logging.CorrelationID, middleware.GetCorrelationID(r.Context())).
			Msg("login failed")
		writeError(w, r, http.StatusUnauthorized, "login failed")
	default:
		h.writeServiceError(w, r, err)
	}
}

func (h *Handler) observeLogin(result string) {
	if h.metrics != nil {
		h.metrics.ObserveLogin(result)
	}
}
