package client

import (
	"time"

	"github.com/sony/gobreaker"

	"github.com/kjstillabower/geoweather-service/internal/observability"
)

// BreakerConfig configures the optional upstream circuit breaker.
type BreakerConfig struct {
	FailureThreshold uint32        // consecutive failures that open the circuit
	OpenTimeout      time.Duration // how long the circuit stays open before a probe
	HalfOpenRequests uint32        // probes allowed while half-open
}

// NewBreaker returns a breaker that reports its state to the circuitBreakerState gauge
// under the provider label.
func NewBreaker(provider string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	observability.CircuitBreakerState.WithLabelValues(provider).Set(0)

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			observability.CircuitBreakerState.WithLabelValues(name).Set(observability.CircuitBreakerStateValue(to.String()))
			observability.CircuitBreakerTransitionsTotal.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
}
