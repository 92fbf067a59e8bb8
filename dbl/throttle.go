package dbl

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	// ErrMustNotBeZero is returned for a non-positive rate or burst
	ErrMustNotBeZero = errors.New("must be greater than zero")
	// ErrThrottleWait is returned when waiting for a token fails
	ErrThrottleWait = errors.New("rate limiter wait failed")
)

// throttle is an http.RoundTripper, using the time/rate token
// bucket limiter to restrict outbound calls.
type throttle struct {
	limiter *rate.Limiter
	rps     int
	burst   int
	next    http.RoundTripper
	logger  zerolog.Logger
}

func newThrottle(rps, burst int, logger zerolog.Logger, next http.RoundTripper) (http.RoundTripper, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}

	return &throttle{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		rps:     rps,
		burst:   burst,
		next:    next,
		logger:  logger,
	}, nil
}

func (t *throttle) RoundTrip(r *http.Request) (*http.Response, error) {
	ctx := r.Context()

	if !t.limiter.Allow() {
		start := time.Now()
		t.logger.Debug().
			Int("rate", t.rps).
			Int("burst", t.burst).
			Str("path", r.URL.Path).
			Msg("Rate limit tokens exhausted, waiting")

		if err := t.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrThrottleWait, err)
		}

		t.logger.Debug().Dur("waited", time.Since(start)).Msg("Rate limit wait complete")
	}

	return t.next.RoundTrip(r)
}
