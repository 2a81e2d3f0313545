package circ

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusReporter exports statistics snapshots as Prometheus counters.
//
// Snapshots are converted to counter increments, so a ResetStatistics on the
// decoder does not make the exported counters go backwards.
type PrometheusReporter struct {
	codewords *prometheus.CounterVec
	reports   prometheus.Counter
	failedPct prometheus.Gauge

	last Statistics
}

// NewPrometheusReporter creates the metrics and registers them on registerer,
// labelled with the given track. A nil registerer leaves them unregistered.
func NewPrometheusReporter(registerer prometheus.Registerer, namespace, subsystem, track string) *PrometheusReporter {
	r := PrometheusReporter{
		codewords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "c2_codewords_total",
			Help:      "Number of C2 codewords by decode outcome",
		}, []string{"outcome"}),
		reports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "c2_status_reports_total",
			Help:      "Number of status snapshots reported",
		}),
		failedPct: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "c2_failed_percent",
			Help:      "Share of failed C2 codewords in the last snapshot",
		}),
	}

	// Make the outcome series visible before the first report.
	for _, o := range []Outcome{Passed, Corrected, Failed, Flushed} {
		r.codewords.WithLabelValues(o.String())
	}

	if registerer != nil {
		registerer = prometheus.WrapRegistererWith(
			prometheus.Labels{"component": "c2", "track": track},
			registerer,
		)
		registerer.MustRegister(r.codewords, r.reports, r.failedPct)
	}

	return &r
}

func (r *PrometheusReporter) ReportStatus(s Statistics) {
	r.add(Passed, s.Passed, r.last.Passed)
	r.add(Corrected, s.Corrected, r.last.Corrected)
	r.add(Failed, s.Failed, r.last.Failed)
	r.add(Flushed, s.Flushed, r.last.Flushed)
	r.last = s
	r.reports.Inc()
	if total := s.Total(); total > 0 {
		r.failedPct.Set(100 * float64(s.Failed) / float64(total))
	} else {
		r.failedPct.Set(0)
	}
}

func (r *PrometheusReporter) add(o Outcome, now, last int64) {
	delta := now - last
	if delta < 0 {
		// statistics were reset since the last snapshot
		delta = now
	}
	if delta > 0 {
		r.codewords.WithLabelValues(o.String()).Add(float64(delta))
	}
}
