// Package circuitbreaker builds gobreaker breakers with shared defaults for
// outbound calls.
package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/sony/gobreaker/v2"
)

type Config struct {
	Name string
	// half-open probes allowed before closing again
	MaxRequests uint32
	// closed-state counter reset period
	Interval time.Duration
	// open-state duration before half-open
	Timeout time.Duration
	// consecutive failures that trip the breaker
	FailureThreshold uint32
}

func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 3,
	}
}

// New returns a breaker for calls that produce T. Context cancellation is
// not counted as a failure.
func New[T any](cfg Config) *gobreaker.CircuitBreaker[T] {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}

	return gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// IsOpen reports whether err was returned because the breaker rejected the call.
func IsOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
