package dbl

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Callback receives the outcome of a submitted request. A well-behaved
// transport invokes it exactly once with either a response or an error.
type Callback func(resp *http.Response, err error)

// Transport submits a request and reports completion through cb. Enqueue
// must not block on the network.
type Transport interface {
	Enqueue(req *http.Request, cb Callback)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(req *http.Request, cb Callback)

// Enqueue calls f(req, cb).
func (f TransportFunc) Enqueue(req *http.Request, cb Callback) {
	f(req, cb)
}

// authenticated attaches the Authorization header to every request before
// handing it to the wrapped transport.
type authenticated struct {
	token string
	next  Transport
}

func authenticate(token string, next Transport) Transport {
	return authenticated{token: token, next: next}
}

func (a authenticated) Enqueue(req *http.Request, cb Callback) {
	cpy := req.Clone(req.Context())
	cpy.Header.Set("Authorization", a.token)
	a.next.Enqueue(cpy, cb)
}

// httpTransport executes requests with an *http.Client on a dispatcher.
type httpTransport struct {
	client *http.Client
	pool   *dispatcher
}

func newHTTPTransport(opts options, logger zerolog.Logger) (*httpTransport, error) {
	hc := &http.Client{Timeout: 30 * time.Second}
	if opts.httpClient != nil {
		cpy := *opts.httpClient
		hc = &cpy
	}

	if opts.timeout != nil {
		hc.Timeout = *opts.timeout
	}

	rt := hc.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	if opts.userAgent != "" {
		rt = userAgent{value: opts.userAgent, base: rt}
	}
	if opts.rateLimit != nil {
		throttled, err := newThrottle(opts.rateLimit.rps, opts.rateLimit.burst, logger, rt)
		if err != nil {
			return nil, fmt.Errorf("configuring rate limit: %w", err)
		}
		rt = throttled
	}
	hc.Transport = rt

	workers := opts.workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &httpTransport{
		client: hc,
		pool:   newDispatcher(workers),
	}, nil
}

func (t *httpTransport) Enqueue(req *http.Request, cb Callback) {
	err := t.pool.Submit(func() {
		cb(t.client.Do(req))
	})
	if err != nil {
		cb(nil, err)
	}
}

// Close stops accepting requests and waits for queued ones to finish.
func (t *httpTransport) Close(ctx context.Context) error {
	return t.pool.Stop(ctx)
}

// userAgent is an http.RoundTripper, enabling the persistent User-Agent header.
type userAgent struct {
	value string
	base  http.RoundTripper
}

func (ua userAgent) RoundTrip(r *http.Request) (*http.Response, error) {
	cpy := r.Clone(r.Context())
	cpy.Header.Set("User-Agent", ua.value)
	return ua.base.RoundTrip(cpy)
}
