package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRecordWriteIncrementsLabeledCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	instance = nil // isolate from any earlier test's singleton
	m := New(WithNamespace("test"), WithRegistry(reg))

	m.RecordWrite(true)
	m.RecordWrite(false)
	m.RecordWrite(true)

	mf, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range mf {
		if f.GetName() != "test_cell_writes_total" {
			continue
		}
		found = true
		for _, metric := range f.Metric {
			for _, l := range metric.Label {
				if l.GetName() == "changed" && l.GetValue() == "true" {
					require.Equal(t, float64(2), metric.Counter.GetValue())
				}
			}
		}
	}
	require.True(t, found, "expected test_cell_writes_total to be registered")
}

func TestRecordRecomputeObservesHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	instance = nil
	m := New(WithNamespace("test"), WithRegistry(reg))

	m.RecordRecompute(true, 3)

	mf, err := reg.Gather()
	require.NoError(t, err)

	var hist *dto.Histogram
	for _, f := range mf {
		if f.GetName() == "test_computed_dependency_count" {
			hist = f.Metric[0].Histogram
		}
	}
	require.NotNil(t, hist)
	require.Equal(t, uint64(1), hist.GetSampleCount())
}
