// Package metrics exposes Prometheus counters for validation activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"docvet/internal/domain"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docvet_runs_total",
			Help: "The total number of validation runs by verdict",
		},
		[]string{"verdict"},
	)
	documentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docvet_documents_total",
			Help: "The total number of validated documents by kind and result",
		},
		[]string{"kind", "result"},
	)
	outcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docvet_rule_outcomes_total",
			Help: "The total number of rule outcomes by kind and status",
		},
		[]string{"kind", "status"},
	)
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docvet_run_duration_seconds",
			Help:    "Wall time of validation runs",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Document result labels.
const (
	ResultPassed    = "passed"
	ResultFailed    = "failed"
	ResultLoadError = "load_error"
)

// ObserveReport records one document's outcomes.
func ObserveReport(r *domain.ValidationReport) {
	result := ResultPassed
	switch {
	case r.Failure != nil:
		result = ResultLoadError
	case !r.Passed:
		result = ResultFailed
	}
	documentsTotal.WithLabelValues(r.Kind, result).Inc()
	for i := range r.Outcomes {
		outcomesTotal.WithLabelValues(r.Kind, string(r.Outcomes[i].Status)).Inc()
	}
}

// ObserveRun records a finished run and all of its reports.
func ObserveRun(run *domain.RunResult) {
	runsTotal.WithLabelValues(string(run.Verdict())).Inc()
	runDuration.Observe(run.FinishedAt.Sub(run.StartedAt).Seconds())
	for i := range run.Reports {
		ObserveReport(&run.Reports[i])
	}
}

// ObserveNoDocuments records a run that aborted because nothing was found.
func ObserveNoDocuments() {
	runsTotal.WithLabelValues(string(domain.VerdictNoDocuments)).Inc()
}
