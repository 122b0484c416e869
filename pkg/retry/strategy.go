package retry

import (
	"errors"
	"math"
	"time"

	"github.com/code-payments/code-vault-program/pkg/retry/backoff"
)

// Strategy decides whether an action should be attempted again. Strategies
// may sleep before returning.
type Strategy func(attempts uint, err error) bool

// Limit caps the total number of attempts, including the first.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors only allows another attempt for errors matching one of
// the provided targets.
func RetriableErrors(retriableErrors ...error) Strategy {
	return func(_ uint, err error) bool {
		for _, target := range retriableErrors {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// RetriableIf only allows another attempt when the predicate matches the error.
func RetriableIf(predicate func(error) bool) Strategy {
	return func(_ uint, err error) bool {
		return predicate(err)
	}
}

// Backoff sleeps between attempts, never longer than maxBackoff.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	return func(attempts uint, _ error) bool {
		delay := time.Duration(math.Min(float64(maxBackoff), float64(strategy(attempts))))
		sleeperImpl.Sleep(delay)
		return true
	}
}

type sleeper interface {
	Sleep(time.Duration)
}

type realSleeper struct{}

func (r *realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

var sleeperImpl sleeper = &realSleeper{}
