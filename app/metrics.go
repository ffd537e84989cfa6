package app

import (
	"csvexplorer/internal/charts"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts explorer activity
type Metrics struct {
	Uploads *prometheus.CounterVec
	Renders *prometheus.CounterVec
	Charts  *prometheus.CounterVec
}

// NewMetrics registers the explorer collectors on reg. activeSessions, when set, backs the
// live session gauge.
func NewMetrics(reg prometheus.Registerer, activeSessions func() int) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		Uploads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csvexplorer",
			Name:      "uploads_total",
			Help:      "CSV uploads by result (success, failure).",
		}, []string{"result"}),
		Renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csvexplorer",
			Name:      "renders_total",
			Help:      "Page renders by active tab.",
		}, []string{"tab"}),
		Charts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "csvexplorer",
			Name:      "charts_total",
			Help:      "Chart requests by kind and outcome (rendered, notice, unselected, failed).",
		}, []string{"kind", "outcome"}),
	}

	if activeSessions != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "csvexplorer",
			Name:      "active_sessions",
			Help:      "Browser sessions currently held in memory.",
		}, func() float64 { return float64(activeSessions()) })
	}

	return m
}

func (m *Metrics) upload(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.Uploads.WithLabelValues(result).Inc()
}

func (m *Metrics) render(tab Tab) {
	if m == nil {
		return
	}
	m.Renders.WithLabelValues(string(tab)).Inc()
}

// unknownKindLabel groups every chart kind the explorer does not draw
const unknownKindLabel = "unknown"

func (m *Metrics) chart(kind charts.Kind, outcome string) {
	if m == nil {
		return
	}
	label := unknownKindLabel
	if k, ok := charts.ParseKind(string(kind)); ok {
		label = string(k)
	}
	m.Charts.WithLabelValues(label, outcome).Inc()
}
