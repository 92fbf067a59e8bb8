package dbl

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Transformer turns a completed 2xx response into a typed value.
type Transformer[T any] func(resp *http.Response) (T, error)

// decodeInto parses the body into T. A struct{} target only drains the body.
func decodeInto[T any](codec Codec, endpoint string) Transformer[T] {
	return func(resp *http.Response) (T, error) {
		var out T

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return out, &TransformError{Endpoint: endpoint, Err: fmt.Errorf("reading body: %w", err)}
		}

		if _, empty := any(out).(struct{}); empty {
			return out, nil
		}

		if err := codec.Unmarshal(body, &out); err != nil {
			var zero T
			return zero, &TransformError{Endpoint: endpoint, Err: err}
		}

		return out, nil
	}
}

// votedTransformer reads the integer "voted" field of the check endpoint.
// Only a value of exactly 1 counts as a vote.
func votedTransformer(codec Codec, endpoint string) Transformer[bool] {
	return func(resp *http.Response) (bool, error) {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, &TransformError{Endpoint: endpoint, Err: fmt.Errorf("reading body: %w", err)}
		}

		var check struct {
			Voted *int `json:"voted"`
		}
		if err := codec.Unmarshal(body, &check); err != nil {
			return false, &TransformError{Endpoint: endpoint, Err: err}
		}

		if check.Voted == nil {
			return false, &TransformError{Endpoint: endpoint, Err: fmt.Errorf("%w: voted", ErrMissingField)}
		}

		return *check.Voted == 1, nil
	}
}

// checkStatus converts a non-2xx response into an *APIError.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBodySize))
	if err != nil {
		b = []byte("unable to read body")
	}

	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    c.errorMessage(b, resp.Status),
		Body:       string(b),
	}

	if apiErr.IsRateLimited() {
		apiErr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}

	return apiErr
}

// errorMessage prefers the "error" field the API puts in error bodies.
func (c *Client) errorMessage(body []byte, status string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := c.codec.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return status
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}

	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}

	return 0
}
