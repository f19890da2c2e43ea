package classifier

import "context"

// RetryOutcome reports how a bounded retry finished.
type RetryOutcome string

const (
	OutcomeSuccess   RetryOutcome = "success"
	OutcomeRetried   RetryOutcome = "retried_success"
	OutcomeExhausted RetryOutcome = "exhausted"
)

// RetryResult is the result of Retry.
type RetryResult[T any] struct {
	Value    T
	Outcome  RetryOutcome
	Attempts int
	Err      error
}

// Retry runs op up to maxAttempts times. prev carries the error of the
// previous attempt so op can repair its input. Errors for which retryable
// returns false stop immediately and are reported as exhausted.
func Retry[T any](
	ctx context.Context,
	maxAttempts int,
	op func(ctx context.Context, attempt int, prev error) (T, error),
	retryable func(error) bool,
) RetryResult[T] {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var (
		zero T
		prev error
	)
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return RetryResult[T]{Value: zero, Outcome: OutcomeExhausted, Attempts: attempt - 1, Err: err}
		}
		v, err := op(ctx, attempt, prev)
		if err == nil {
			outcome := OutcomeSuccess
			if attempt > 1 {
				outcome = OutcomeRetried
			}
			return RetryResult[T]{Value: v, Outcome: outcome, Attempts: attempt}
		}
		prev = err
		if retryable != nil && !retryable(err) {
			return RetryResult[T]{Value: v, Outcome: OutcomeExhausted, Attempts: attempt, Err: err}
		}
	}
	return RetryResult[T]{Value: zero, Outcome: OutcomeExhausted, Attempts: maxAttempts, Err: prev}
}
