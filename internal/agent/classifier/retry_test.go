package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errFlaky = errors.New("flaky")

func TestRetryFirstAttempt(t *testing.T) {
	res := Retry(context.Background(), 2, func(context.Context, int, error) (string, error) {
		return "ok", nil
	}, nil)
	assert.Equal(t, OutcomeSuccess, res.Outcome)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, "ok", res.Value)
	assert.NoError(t, res.Err)
}

func TestRetrySecondAttemptSeesPreviousError(t *testing.T) {
	var seen error
	res := Retry(context.Background(), 2, func(_ context.Context, attempt int, prev error) (int, error) {
		if attempt == 1 {
			return 0, errFlaky
		}
		seen = prev
		return 7, nil
	}, nil)
	assert.Equal(t, OutcomeRetried, res.Outcome)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 7, res.Value)
	assert.ErrorIs(t, seen, errFlaky)
}

func TestRetryExhausted(t *testing.T) {
	calls := 0
	res := Retry(context.Background(), 2, func(context.Context, int, error) (int, error) {
		calls++
		return 0, errFlaky
	}, nil)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.Equal(t, 2, calls)
	assert.ErrorIs(t, res.Err, errFlaky)
}

func TestRetryStopsOnNonRetryable(t *testing.T) {
	fatal := errors.New("fatal")
	calls := 0
	res := Retry(context.Background(), 3, func(context.Context, int, error) (int, error) {
		calls++
		return 0, fatal
	}, func(err error) bool { return !errors.Is(err, fatal) })
	assert.Equal(t, 1, calls)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.ErrorIs(t, res.Err, fatal)
}

func TestRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Retry(ctx, 2, func(context.Context, int, error) (int, error) {
		t.Fatal("op must not run")
		return 0, nil
	}, nil)
	assert.Equal(t, OutcomeExhausted, res.Outcome)
	assert.ErrorIs(t, res.Err, context.Canceled)
}
