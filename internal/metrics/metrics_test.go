package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderImplementations(t *testing.T) {
	var _ Recorder = Noop{}
	var _ Recorder = (*Prometheus)(nil)
}

func TestNoopNoPanic(t *testing.T) {
	r := Noop{}
	r.RecordGenerated()
	r.RecordReused()
	r.RecordUpload(true)
	r.SetEntries(3)
}

func TestPrometheusCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheusWithRegistry(reg)

	p.RecordGenerated()
	p.RecordGenerated()
	p.RecordReused()
	p.RecordUpload(true)
	p.RecordUpload(false)
	p.RecordUpload(false)
	p.SetEntries(2)

	assert.Equal(t, 2.0, testutil.ToFloat64(p.generatedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.reusedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(p.uploadsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.uploadsTotal.WithLabelValues("failure")))
	assert.Equal(t, 2.0, testutil.ToFloat64(p.entries))
}

func TestPrometheusRegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusWithRegistry(reg)
	assert.Panics(t, func() { NewPrometheusWithRegistry(reg) })
}
