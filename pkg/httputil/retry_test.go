package httputil

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

var errTransient = errors.New("connection reset")

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(errTransient)
	if !IsRetryable(err) {
		t.Error("IsRetryable should be true for a wrapped error")
	}
	if !errors.Is(err, errTransient) {
		t.Error("wrapped error should unwrap to the cause")
	}
	if err.Error() != errTransient.Error() {
		t.Errorf("message = %q", err.Error())
	}
	if !IsRetryable(fmt.Errorf("outer: %w", err)) {
		t.Error("IsRetryable should see through fmt wrapping")
	}
	if IsRetryable(errTransient) {
		t.Error("plain error should not be retryable")
	}
}

func TestRetry(t *testing.T) {
	errFatal := errors.New("bad request")

	tests := []struct {
		name      string
		attempts  int
		failures  int
		fail      error
		wantCalls int
		wantErr   error
	}{
		{"SuccessFirstTry", 3, 0, nil, 1, nil},
		{"RecoversAfterRetry", 3, 2, Retryable(errTransient), 3, nil},
		{"ExhaustsAttempts", 3, 5, Retryable(errTransient), 3, errTransient},
		{"NonRetryableStops", 3, 5, errFatal, 1, errFatal},
		{"ZeroAttemptsRunsOnce", 0, 5, Retryable(errTransient), 1, errTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return tt.fail
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr == nil && err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		return Retryable(errTransient)
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), func() error {
		calls++
		return nil
	})
	if err != nil || calls != 1 {
		t.Errorf("err = %v, calls = %d", err, calls)
	}
}
