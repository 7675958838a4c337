package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.SessionStarted()
	r.SessionStarted()
	r.StageTransition("welcome", "resumeUpload")
	r.InterviewCompleted("questions")
	r.FieldsExtracted([]string{"email", "skills"})
	r.FieldsExtracted([]string{"email"})
	r.SinkSubmission("failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.sessionsStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stageTransitions.WithLabelValues("welcome", "resumeUpload")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.completed.WithLabelValues("questions")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.extractedFields.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.sinkSubmissions.WithLabelValues("failed")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestOrNop(t *testing.T) {
	assert.Equal(t, Recorder(Nop{}), OrNop(nil))

	r := NewPrometheusRecorder(prometheus.NewRegistry())
	assert.Same(t, r, OrNop(r))
}
