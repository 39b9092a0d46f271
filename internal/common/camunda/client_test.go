package camunda

import (
	"context"
	"errors"
	"testing"
	"time"

	"footfit/internal/common/config"
	"footfit/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestRetry(t *testing.T) {
	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), fastRetry, logger.NewNoOpLogger(), "op", func(context.Context) error {
			calls++
			if calls < 3 {
				return errors.New("rpc error: code = Unavailable")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), fastRetry, logger.NewNoOpLogger(), "op", func(context.Context) error {
			calls++
			return errors.New("dial tcp: connection refused")
		})
		require.Error(t, err)
		assert.Equal(t, 4, calls)
		assert.Contains(t, err.Error(), "after 4 attempts")
	})

	t.Run("permanent error is not retried", func(t *testing.T) {
		calls := 0
		err := Retry(context.Background(), fastRetry, logger.NewNoOpLogger(), "op", func(context.Context) error {
			calls++
			return errors.New("permission denied")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		slow := RetryConfig{MaxRetries: 5, BaseDelay: time.Hour}
		calls := 0
		err := Retry(ctx, slow, logger.NewNoOpLogger(), "op", func(context.Context) error {
			calls++
			cancel()
			return errors.New("timeout")
		})
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("context deadline exceeded")))
	assert.True(t, IsRetryable(errors.New("Connection Reset by peer")))
	assert.False(t, IsRetryable(errors.New("NOT_FOUND: no such process")))
}

func TestConfigFromApp(t *testing.T) {
	cfg := ConfigFromApp(config.CamundaConfig{BrokerAddress: "zeebe:26500", RequestTimeout: 1500})
	assert.Equal(t, "zeebe:26500", cfg.GatewayAddress)
	assert.True(t, cfg.UsePlaintextConnection)
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, DefaultRetryConfig, cfg.Retry)
}

func TestConnect_RequiresAddress(t *testing.T) {
	_, err := Connect(context.Background(), &ClientConfig{}, logger.NewNoOpLogger())
	assert.Error(t, err)
}

type handlerFunc func(worker.JobClient, entities.Job)

func (f handlerFunc) Handle(c worker.JobClient, j entities.Job) { f(c, j) }

// The gateway is never reached: grpc dials lazily and the pollers only back off.
func TestManager_StartStop(t *testing.T) {
	zc, err := zbc.NewClient(&zbc.ClientConfig{GatewayAddress: "127.0.0.1:1", UsePlaintextConnection: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = zc.Close() })

	m := NewManager(zc, "footfit-test", logger.NewNoOpLogger())
	noop := handlerFunc(func(worker.JobClient, entities.Job) {})

	m.Start(Registration{TaskType: "validate-profile", Handler: noop, MaxJobsActive: 1, Timeout: time.Second})
	m.Start(Registration{TaskType: "validate-profile", Handler: noop, MaxJobsActive: 9})
	m.Start(Registration{TaskType: "compute-recommendation", Handler: noop, MaxJobsActive: 2})

	assert.ElementsMatch(t, []string{"validate-profile", "compute-recommendation"}, m.Running())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	m.Stop(ctx)
}
