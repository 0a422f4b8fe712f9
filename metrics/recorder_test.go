package metrics_test

import (
	"testing"

	"github.com/crystalshelf/cif/metrics"
	"github.com/stretchr/testify/require"
)

func TestNilRecorderMethodsAreNoOps(t *testing.T) {
	var r *metrics.Recorder
	require.NotPanics(t, func() {
		r.ObserveParse(3, 0)
		r.ObserveValidate(0.01, 0, 1)
		r.ObserveDiagnostic("TypeError")
	})
}

func TestNewUnregisteredRecorderRecordsWithoutPanicking(t *testing.T) {
	r := metrics.NewUnregistered()
	require.NotPanics(t, func() {
		r.ObserveParse(1, 0)
		r.ObserveValidate(0.002, 1, 2)
		r.ObserveDiagnostic("RangeError")
	})
}
