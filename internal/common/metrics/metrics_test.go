// internal/common/metrics/metrics_test.go
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordResolution(t *testing.T) {
	before := testutil.ToFloat64(ProgressResolutions.WithLabelValues("home-visit", "standard"))
	fallbacks := testutil.ToFloat64(ProgressStatusFallbacks.WithLabelValues("home-visit"))

	RecordResolution("home-visit", "standard", true)
	RecordResolution("home-visit", "standard", false)

	assert.Equal(t, before+2, testutil.ToFloat64(ProgressResolutions.WithLabelValues("home-visit", "standard")))
	assert.Equal(t, fallbacks+1, testutil.ToFloat64(ProgressStatusFallbacks.WithLabelValues("home-visit")))
}

func TestRecordJob(t *testing.T) {
	completed := testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("metrics-test"))
	failed := testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("metrics-test", "UNKNOWN_DOMAIN"))

	RecordJob("metrics-test", "")
	RecordJob("metrics-test", "UNKNOWN_DOMAIN")

	assert.Equal(t, completed+1, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("metrics-test")))
	assert.Equal(t, failed+1, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("metrics-test", "UNKNOWN_DOMAIN")))
}
