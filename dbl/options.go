package dbl

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Client.
type Option func(*options) error

type options struct {
	httpClient     *http.Client
	transport      Transport
	baseURL        string
	timeout        *time.Duration
	rateLimit      *rateLimit
	codec          Codec
	workers        int
	tracerProvider trace.TracerProvider
	userAgent      string
}

type rateLimit struct {
	rps   int
	burst int
}

// WithHTTPClient sets the *http.Client the default transport sends with.
// The client is copied; the caller's value is not modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		o.httpClient = hc
		return nil
	}
}

// WithTransport replaces the default transport. The HTTP specific options
// (WithHTTPClient, WithTimeout, WithRateLimit, WithUserAgent, WithWorkers)
// do not apply to a custom transport. The Authorization header is still
// attached.
func WithTransport(t Transport) Option {
	return func(o *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = t
		return nil
	}
}

// WithBaseURL overrides DefaultBaseURL, e.g. to point at a test server.
func WithBaseURL(baseURL string) Option {
	return func(o *options) error {
		if baseURL == "" {
			return errors.New("base URL must not be empty")
		}
		o.baseURL = baseURL
		return nil
	}
}

// WithTimeout sets the overall request timeout of the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		o.timeout = &d
		return nil
	}
}

// WithRateLimit throttles outgoing requests to rps with the given burst.
func WithRateLimit(rps, burst int) Option {
	return func(o *options) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
		}
		o.rateLimit = &rateLimit{rps: rps, burst: burst}
		return nil
	}
}

// WithCodec replaces the JSON codec.
func WithCodec(codec Codec) Option {
	return func(o *options) error {
		if codec == nil {
			return errors.New("codec must not be nil")
		}
		o.codec = codec
		return nil
	}
}

// WithWorkers sets how many requests the default transport runs at once.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("workers[%d] %w", n, ErrMustNotBeZero)
		}
		o.workers = n
		return nil
	}
}

// WithTracerProvider sets the provider spans are created from. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider must not be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

// WithUserAgent adds a persistent User-Agent header to all outgoing requests.
func WithUserAgent(ua string) Option {
	return func(o *options) error {
		o.userAgent = ua
		return nil
	}
}
