// Package resilience retries remote calls with exponential backoff.
package resilience

import (
	"context"
	"log/slog"
	"time"

	"orderflow/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// Policy is a named retry budget. Policies are shared by every call to the
// same remote service.
type Policy struct {
	Name            string
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	Logger          *slog.Logger
}

// DefaultPolicy allows three attempts, 500ms apart and doubling.
func DefaultPolicy(name string) Policy {
	return Policy{
		Name:            name,
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		exp.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		exp.MaxInterval = p.MaxInterval
	}
	if p.Multiplier >= 1 {
		exp.Multiplier = p.Multiplier
	}
	exp.MaxElapsedTime = 0
	exp.Reset()

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(attempts-1)), ctx)
}

func (p Policy) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

// Retry runs op until it succeeds, returns an error isRetryable rejects, or
// the policy is exhausted. Rejected errors surface unchanged. Exhaustion
// yields *errs.RemoteServiceUnavailableError wrapping the last failure.
func Retry[T any](
	ctx context.Context,
	policy Policy,
	isRetryable func(error) bool,
	op func(ctx context.Context) (T, error),
) (T, error) {
	var (
		attempts  int
		permanent bool
	)

	result, err := backoff.RetryNotifyWithData(
		func() (T, error) {
			attempts++
			value, opErr := op(ctx)
			if opErr != nil && !isRetryable(opErr) {
				permanent = true
				return value, backoff.Permanent(opErr)
			}
			return value, opErr
		},
		policy.backOff(ctx),
		func(opErr error, wait time.Duration) {
			policy.logger().WarnContext(ctx, "remote call failed, retrying",
				slog.String("service", policy.Name),
				slog.Int("attempt", attempts),
				slog.Duration("wait", wait),
				slog.String("error", opErr.Error()),
			)
		},
	)
	if err == nil || permanent {
		return result, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}

	policy.logger().ErrorContext(ctx, "remote call failed after retries",
		slog.String("service", policy.Name),
		slog.Int("attempts", attempts),
		slog.String("error", err.Error()),
	)
	return result, errs.NewRemoteServiceUnavailableError(policy.Name, attempts, err)
}
