package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// logger fields
const (
	Service        = "svc"
	Component      = "component"
	ShipmentID     = "shipment_id"
	TrackingNumber = "tracking_number"
	CorrelationID  = "correlation_id"
	Method         = "method"
	Path           = "path"
	Status         = "status"
	Bytes          = "bytes"
	Duration       = "duration"
	Event          = "event"
)

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New returns a JSON logger on stdout tagged with the service name.
func New(level, service string) zerolog.Logger {
	return NewWithWriter(os.Stdout, level, service)
}

func NewWithWriter(w io.Writer, level, service string) zerolog.Logger {
	return zerolog.New(w).
		Level(LevelFromString(level)).
		With().
		Timestamp().
		Str(Service, service).
		Logger()
}

// ForComponent returns a child logger with component={name}.
func ForComponent(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str(Component, name).Logger()
}

func LevelFromString(value string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
