package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder records QR service events.
type Recorder interface {
	// RecordGenerated records a newly rendered QR image.
	RecordGenerated()

	// RecordReused records a request answered from an existing mapping.
	RecordReused()

	// RecordUpload records an upload attempt.
	RecordUpload(success bool)

	// SetEntries reports the current mapping table size.
	SetEntries(n int)
}

// Noop discards everything.
type Noop struct{}

func (Noop) RecordGenerated()  {}
func (Noop) RecordReused()     {}
func (Noop) RecordUpload(bool) {}
func (Noop) SetEntries(int)    {}

// Prometheus records metrics using Prometheus collectors.
type Prometheus struct {
	generatedTotal prometheus.Counter
	reusedTotal    prometheus.Counter
	uploadsTotal   *prometheus.CounterVec
	entries        prometheus.Gauge
}

// NewPrometheus registers the collectors with the default registry.
func NewPrometheus() *Prometheus {
	return NewPrometheusWithRegistry(prometheus.DefaultRegisterer)
}

// NewPrometheusWithRegistry registers the collectors with reg. Use this for testing.
func NewPrometheusWithRegistry(reg prometheus.Registerer) *Prometheus {
	generatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "qrdrop_qr_generated_total",
		Help: "Total QR images rendered",
	})
	reusedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "qrdrop_qr_reused_total",
		Help: "Total requests served from an existing mapping",
	})
	uploadsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "qrdrop_uploads_total",
		Help: "Total file uploads",
	}, []string{"result"})
	entries := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "qrdrop_mapping_entries",
		Help: "Current number of entries in the mapping table",
	})

	reg.MustRegister(generatedTotal, reusedTotal, uploadsTotal, entries)

	return &Prometheus{
		generatedTotal: generatedTotal,
		reusedTotal:    reusedTotal,
		uploadsTotal:   uploadsTotal,
		entries:        entries,
	}
}

func (p *Prometheus) RecordGenerated() { p.generatedTotal.Inc() }

func (p *Prometheus) RecordReused() { p.reusedTotal.Inc() }

func (p *Prometheus) RecordUpload(success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	p.uploadsTotal.WithLabelValues(result).Inc()
}

func (p *Prometheus) SetEntries(n int) { p.entries.Set(float64(n)) }
