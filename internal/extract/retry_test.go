package extract

import (
	"context"
	"errors"
	"testing"
)

func TestRetryDoFirstSuccess(t *testing.T) {
	calls := 0
	err := retryDo(context.Background(), 3, 0, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("retryDo() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryDoEventualSuccess(t *testing.T) {
	calls := 0
	err := retryDo(context.Background(), 3, 0, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("retryDo() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryDoExhausted(t *testing.T) {
	calls := 0
	wantErr := errors.New("permanent")
	err := retryDo(context.Background(), 3, 0, func() error {
		calls++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("retryDo() error = %v, want %v", err, wantErr)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryDoCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := retryDo(ctx, 5, 0, func() error {
		calls++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("retryDo() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry after cancellation)", calls)
	}
}

func TestRetryDoClampsAttempts(t *testing.T) {
	calls := 0
	retryDo(context.Background(), 0, 0, func() error {
		calls++
		return errors.New("fail")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1 with attempts clamped to 1", calls)
	}
}
