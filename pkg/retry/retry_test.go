package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/niksmo/storefront/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")
var errPermanent = errors.New("permanent")

func fastConfig(maxAttempts int, shouldRetry retry.ShouldRetry) retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts: maxAttempts,
		Backoff:     retry.LineareBackoff(time.Millisecond),
		ShouldRetry: shouldRetry,
	}
}

func TestDoWithResult(t *testing.T) {
	t.Run("FirstAttemptSucceeds", func(t *testing.T) {
		calls := 0
		got, err := retry.DoWithResult(t.Context(), fastConfig(3, nil),
			func() (string, error) {
				calls++
				return "ok", nil
			})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 1, calls)
	})

	t.Run("RetriesUntilSuccess", func(t *testing.T) {
		calls := 0
		got, err := retry.DoWithResult(t.Context(), fastConfig(3, nil),
			func() (string, error) {
				calls++
				if calls < 3 {
					return "", errTransient
				}
				return "ok", nil
			})
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 3, calls)
	})

	t.Run("ExhaustsAttempts", func(t *testing.T) {
		calls := 0
		_, err := retry.DoWithResult(t.Context(), fastConfig(3, nil),
			func() (string, error) {
				calls++
				return "", errTransient
			})
		require.Error(t, err)
		assert.ErrorIs(t, err, errTransient)
		assert.Equal(t, 3, calls)
	})

	t.Run("NonRetryableErrorReturnsImmediately", func(t *testing.T) {
		shouldRetry := func(err error) bool {
			return errors.Is(err, errTransient)
		}
		calls := 0
		_, err := retry.DoWithResult(t.Context(), fastConfig(3, shouldRetry),
			func() (string, error) {
				calls++
				return "", errPermanent
			})
		require.Error(t, err)
		assert.ErrorIs(t, err, errPermanent)
		assert.Equal(t, 1, calls)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		_, err := retry.DoWithResult(ctx, fastConfig(3, nil),
			func() (string, error) {
				t.Fatal("fn must not run on a canceled context")
				return "", nil
			})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("CancelDuringBackoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cfg := retry.RetryConfig{
			MaxAttempts: 3,
			Backoff:     retry.LineareBackoff(time.Minute),
		}

		done := make(chan error, 1)
		go func() {
			_, err := retry.DoWithResult(ctx, cfg, func() (string, error) {
				return "", errTransient
			})
			done <- err
		}()

		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
			assert.ErrorIs(t, err, errTransient)
		case <-time.After(2 * time.Second):
			t.Fatal("retry did not stop on cancellation")
		}
	})
}

func TestDo(t *testing.T) {
	calls := 0
	err := retry.Do(t.Context(), fastConfig(2, nil), func() error {
		calls++
		return errTransient
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}
