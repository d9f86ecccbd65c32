package pipeline

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts what flows through a pipeline.
type Metrics struct {
	SamplesTotal    prometheus.Counter
	BarsTotal       prometheus.Counter
	ValuesTotal     *prometheus.CounterVec // labels: indicator
	MathErrorsTotal *prometheus.CounterVec // labels: indicator
	Ready           *prometheus.GaugeVec   // labels: indicator; 0 warming, 1 ready
}

// NewMetrics creates the pipeline metrics and registers them on reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streamta_samples_total",
			Help: "Total samples read from the feed",
		}),
		BarsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "streamta_bars_total",
			Help: "Total bars emitted by the consolidator",
		}),
		ValuesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streamta_indicator_values_total",
			Help: "Total indicator updates",
		}, []string{"indicator"}),
		MathErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "streamta_math_errors_total",
			Help: "Indicator updates that ended in a math error",
		}, []string{"indicator"}),
		Ready: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "streamta_indicator_ready",
			Help: "Whether an indicator has warmed up",
		}, []string{"indicator"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.SamplesTotal,
			m.BarsTotal,
			m.ValuesTotal,
			m.MathErrorsTotal,
			m.Ready,
		)
	}
	return m
}
