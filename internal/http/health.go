package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"
)

const serviceName = "tracker-service"

// HealthProbe checks one dependency; a nil error means healthy.
type HealthProbe struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": serviceName,
	})
}

func (h *Handler) Upstreams(w http.ResponseWriter, r *http.Request) {
	results := make([]HealthResult, len(h.probes))

	var wg sync.WaitGroup
	wg.Add(len(h.probes))
	for i := range h.probes {
		go func() {
			defer wg.Done()
			results[i] = checkHealth(r.Context(), h.probes[i])
		}()
	}
	wg.Wait()

	status, code := "ok", http.StatusOK
	for _, res := range results {
		if !res.OK {
			status, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}
	writeJSON(w, code, map[string]any{
		"status":   status,
		"service":  serviceName,
		"upstream": results,
	})
}

func checkHealth(ctx context.Context, probe HealthProbe) HealthResult {
	// Short probe timeout
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := probe.Check(ctx); err != nil {
		return HealthResult{Name: probe.Name, Error: err.Error()}
	}
	return HealthResult{Name: probe.Name, OK: true}
}
