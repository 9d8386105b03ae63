// internal/common/observability/observability_test.go
package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RecordsJobMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	obs := New("observability-test", WithRegisterer(reg))
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordJobProcessed(ctx, "resolve-application-progress", "completed")
	obs.RecordJobDuration(ctx, "resolve-application-progress", 25*time.Millisecond, "completed")

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if strings.HasPrefix(f.GetName(), "jobs_processed") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestStartSpan_WithoutTracing(t *testing.T) {
	obs := New("observability-test", WithRegisterer(promclient.NewRegistry()))
	defer obs.Shutdown()

	ctx, span := obs.StartSpan(context.Background(), "resolve")
	defer span.End()

	assert.NotNil(t, ctx)
	assert.NotNil(t, span)
}

func TestZeroValue_IsSafe(t *testing.T) {
	var obs Observability
	obs.RecordJobProcessed(context.Background(), "x", "failed")
	obs.RecordJobDuration(context.Background(), "x", time.Second, "failed")
	_, span := obs.StartSpan(context.Background(), "noop")
	span.End()
	obs.Shutdown()
}

func TestNil_IsSafe(t *testing.T) {
	var obs *Observability
	obs.RecordJobProcessed(context.Background(), "x", "completed")
	obs.RecordJobDuration(context.Background(), "x", time.Second, "completed")
	_, span := obs.StartSpan(context.Background(), "noop")
	span.End()
	obs.Shutdown()
}
