package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/logistics-tracker/internal/metrics"
	"github.com/andreasstove999/logistics-tracker/internal/middleware"
)

type Deps struct {
	Handler          *Handler
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
	CORSAllowOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Middlewares (outer -> inner)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.CORS(d.CORSAllowOrigins))
	r.Use(middleware.Logging(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Instrument)
	}
	r.Use(middleware.Recover(d.Logger))

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler(d.Logger))
	}

	h := d.Handler
	r.Get("/health", h.Health)
	r.Get("/health/upstreams", h.Upstreams)

	r.Route("/api", func(r chi.Router) {
		r.Get("/statuses", h.Statuses)

		r.Route("/shipments", func(r chi.Router) {
			r.Get("/", h.ListShipments)
			r.Post("/", h.CreateShipment)
			r.Get("/{id}", h.GetShipment)
			r.Get("/{id}/timeline", h.GetTimeline)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/summary", h.DashboardSummary)
			r.Get("/chart", h.DashboardChart)
			r.Get("/recent", h.RecentShipments)
		})

		r.Post("/auth/login", h.Login)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}
