package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/andreasstove999/logistics-tracker/internal/logging"
)

// Logging writes one line per request. 5xx responses are logged at error
// level, 4xx at warn.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			var ev *zerolog.Event
			switch {
			case status >= 500:
				ev = logger.Error()
			case status >= 400:
				ev = logger.Warn()
			default:
				ev = logger.Info()
			}
			ev.Str(logging.Method, r.Method).
				Str(logging.Path, r.URL.Path).
				Int(logging.Status, status).
				Int(logging.Bytes, ww.BytesWritten()).
				Dur(logging.Duration, time.Since(start)).
				Str(logging.CorrelationID, GetCorrelationID(r.Context())).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
