package scoring

import (
	"errors"

	"BowlingLeagueApi/internal/bowling"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts scoring activity. A nil *Metrics records nothing.
type Metrics struct {
	rollsRecorded  prometheus.Counter
	rollsRejected  *prometheus.CounterVec
	matchesClosed  *prometheus.CounterVec
	pointsRecalced prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rollsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bowling",
			Name:      "rolls_recorded_total",
			Help:      "Rolls stored after validation.",
		}),
		rollsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bowling",
			Name:      "rolls_rejected_total",
			Help:      "Roll submissions rejected, by rule.",
		}, []string{"rule"}),
		matchesClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bowling",
			Name:      "matches_closed_total",
			Help:      "Matches that reached a terminal status.",
		}, []string{"status"}),
		pointsRecalced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bowling",
			Name:      "points_recalculated_total",
			Help:      "Finished matches whose points were recalculated.",
		}),
	}
	reg.MustRegister(m.rollsRecorded, m.rollsRejected, m.matchesClosed, m.pointsRecalced)
	return m
}

func (m *Metrics) recorded(n int) {
	if m == nil {
		return
	}
	m.rollsRecorded.Add(float64(n))
}

func (m *Metrics) rejected(err error) {
	if m == nil {
		return
	}
	rule := "unknown"
	var verr *bowling.ValidationError
	if errors.As(err, &verr) {
		rule = string(verr.Rule)
	}
	m.rollsRejected.WithLabelValues(rule).Inc()
}

func (m *Metrics) closed(status bowling.Status) {
	if m == nil {
		return
	}
	m.matchesClosed.WithLabelValues(string(status)).Inc()
}

func (m *Metrics) recalculated() {
	if m == nil {
		return
	}
	m.pointsRecalced.Inc()
}
