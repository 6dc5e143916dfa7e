package shipment

import (
	"testing"

	"go.uber.org/goleak"
)

// Lookups run on their own goroutine; every one must finish or be cancelled.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
