// internal/common/camunda/client_test.go
package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"carecase-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestExecuteWithRetry_RetriesTransient(t *testing.T) {
	attempts := 0
	result, err := executeWithRetry(context.Background(), fastRetry, func(context.Context) (interface{}, error) {
		attempts++
		if attempts < 3 {
			return nil, fmt.Errorf("rpc error: code = Unavailable")
		}
		return "ok", nil
	}, "publish")

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestExecuteWithRetry_PermanentErrorNotRetried(t *testing.T) {
	attempts := 0
	_, err := executeWithRetry(context.Background(), fastRetry, func(context.Context) (interface{}, error) {
		attempts++
		return nil, fmt.Errorf("invalid argument")
	}, "publish")

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.True(t, errors.HasCode(err, errors.ErrCodeExternalService))
}

func TestExecuteWithRetry_TimeoutMapsToTimeoutCode(t *testing.T) {
	_, err := executeWithRetry(context.Background(), fastRetry, func(context.Context) (interface{}, error) {
		return nil, fmt.Errorf("context deadline exceeded")
	}, "topology")

	assert.True(t, errors.HasCode(err, errors.ErrCodeTimeout))
}

func TestExecuteWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	slow := &RetryConfig{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}
	_, err := executeWithRetry(ctx, slow, func(context.Context) (interface{}, error) {
		return nil, fmt.Errorf("connection refused")
	}, "publish")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
