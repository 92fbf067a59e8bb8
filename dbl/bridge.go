package dbl

import (
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// execute submits req to the transport and returns a future settled by the
// transport callback, with the response run through transform.
func execute[T any](c *Client, op string, req *http.Request, transform Transformer[T]) *Future[T] {
	future := newFuture[T]()
	opID := uuid.NewString()

	spanCtx, span := c.tracer.Start(req.Context(), "dbl."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("dbl.operation_id", opID),
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.URL.Path),
		),
	)

	logger := c.logger.With().Str("op", op).Str("op_id", opID).Logger()

	future.Then(func(_ T, err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.Debug().Err(err).Msg("Request failed")
		} else {
			span.SetStatus(codes.Ok, "")
			logger.Debug().Msg("Request completed")
		}
		span.End()
	})

	logger.Debug().
		Str("method", req.Method).
		Str("url", req.URL.Redacted()).
		Msg("Submitting request")

	req = req.WithContext(spanCtx)

	var claim completion
	c.transport.Enqueue(req, func(resp *http.Response, err error) {
		if !claim.take(resp) {
			logger.Debug().Msg("Ignoring duplicate completion")
			return
		}

		value, err := complete(c, req, resp, err, transform)
		future.resolve(value, err)
	})

	return future
}

// complete maps one transport outcome to a value or error. The response
// body is always drained and closed.
func complete[T any](c *Client, req *http.Request, resp *http.Response, err error, transform Transformer[T]) (value T, outErr error) {
	if err != nil {
		closeBody(resp)
		return value, &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: err}
	}
	if resp == nil {
		return value, &TransportError{Method: req.Method, URL: req.URL.Redacted(), Err: fmt.Errorf("transport returned no response")}
	}
	if resp.Body == nil {
		resp.Body = http.NoBody
	}

	defer func() {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			c.logger.Debug().Err(err).Msg("Failed to discard unused body")
		}
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Failed to close response body")
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			var zero T
			value = zero
			outErr = fmt.Errorf("%w: %v", ErrTransformPanic, r)
		}
	}()

	if err := c.checkStatus(resp); err != nil {
		return value, err
	}

	return transform(resp)
}

// completion lets exactly one transport callback process an outcome.
type completion struct {
	mu     sync.Mutex
	taken  bool
	winner *http.Response
}

// take reports whether the caller owns the outcome. Losing callers have
// their body closed unless it is the one the winner is reading.
func (c *completion) take(resp *http.Response) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.taken {
		if resp != c.winner {
			closeBody(resp)
		}
		return false
	}

	c.taken = true
	c.winner = resp
	return true
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}
