// Package metrics provides Prometheus-based recording of interview activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "talentscout"

// Recorder receives interview events.
type Recorder interface {
	SessionStarted()
	StageTransition(from, to string)
	InterviewCompleted(path string)
	FieldsExtracted(fields []string)
	SinkSubmission(status string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) SessionStarted()             {}
func (Nop) StageTransition(_, _ string) {}
func (Nop) InterviewCompleted(_ string) {}
func (Nop) FieldsExtracted(_ []string)  {}
func (Nop) SinkSubmission(_ string)     {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	sessionsStarted  prometheus.Counter
	stageTransitions *prometheus.CounterVec
	completed        *prometheus.CounterVec
	extractedFields  *prometheus.CounterVec
	sinkSubmissions  *prometheus.CounterVec
}

// NewPrometheusRecorder registers the interview metrics with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		sessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Total number of started screening sessions",
		}),
		stageTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_transitions_total",
				Help:      "Total number of interview stage transitions",
			},
			[]string{"from", "to"},
		),
		completed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "interviews_completed_total",
				Help:      "Total number of completed interviews by completion path",
			},
			[]string{"path"},
		),
		extractedFields: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extracted_fields_total",
				Help:      "Total number of fields found by resume extraction",
			},
			[]string{"field"},
		),
		sinkSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sink_submissions_total",
				Help:      "Total number of application log submissions by status",
			},
			[]string{"status"},
		),
	}
}

func (p *PrometheusRecorder) SessionStarted() {
	p.sessionsStarted.Inc()
}

func (p *PrometheusRecorder) StageTransition(from, to string) {
	p.stageTransitions.WithLabelValues(from, to).Inc()
}

func (p *PrometheusRecorder) InterviewCompleted(path string) {
	p.completed.WithLabelValues(path).Inc()
}

func (p *PrometheusRecorder) FieldsExtracted(fields []string) {
	for _, field := range fields {
		p.extractedFields.WithLabelValues(field).Inc()
	}
}

func (p *PrometheusRecorder) SinkSubmission(status string) {
	p.sinkSubmissions.WithLabelValues(status).Inc()
}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Recorder) Recorder {
	if r == nil {
		return Nop{}
	}
	return r
}
