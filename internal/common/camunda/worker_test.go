// internal/common/camunda/worker_test.go
package camunda

import (
	"testing"

	"carecase-workers/internal/common/config"
	"carecase-workers/internal/common/metrics"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInstrument_CallsHandlerAndObserves(t *testing.T) {
	called := 0
	h := Instrument("instrument-test", func(worker.JobClient, entities.Job) { called++ }, nil)

	h(nil, entities.Job{})
	h(nil, entities.Job{})

	assert.Equal(t, 2, called)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.WorkerJobDuration), 1)
}

func TestStartWorker_Disabled(t *testing.T) {
	jw := StartWorker(nil, "send-notification", config.WorkerConfig{Enabled: false}, func(worker.JobClient, entities.Job) {}, nil, zap.NewNop())
	assert.Nil(t, jw)
}
