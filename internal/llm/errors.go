package llm

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// ErrMaxRetries is returned when every retry attempt of the initial
// generation call failed with a retryable error.
var ErrMaxRetries = errors.New("max retries exceeded")

// rateLimitWait is the fixed wait after a rate-limit error. Quota windows
// are minute-granular, so exponential backoff would just waste attempts.
const rateLimitWait = 60 * time.Second

type errorKind int

const (
	errOther errorKind = iota
	errOverloaded
	errRateLimited
)

// classify buckets an upstream error into overload, rate-limited, or other.
// Overload and rate-limited are the only retryable kinds.
func classify(err error) errorKind {
	code := 0
	status := ""
	msg := err.Error()
	if apiErr, ok := apiErrorOf(err); ok {
		code = apiErr.Code
		status = apiErr.Status
		msg = apiErr.Message
	}

	switch {
	case code == http.StatusServiceUnavailable,
		status == "UNAVAILABLE",
		strings.Contains(msg, "overloaded"):
		return errOverloaded
	case code == http.StatusTooManyRequests,
		status == "RESOURCE_EXHAUSTED",
		strings.Contains(msg, "quota"):
		return errRateLimited
	}
	return errOther
}

// IsOverloaded reports whether err represents upstream overload, so the
// handler can show the "service busy, retry" message.
func IsOverloaded(err error) bool {
	return classify(err) == errOverloaded
}

// StatusCode returns the HTTP status carried by an upstream API error,
// or 500 when the error carries none.
func StatusCode(err error) int {
	if apiErr, ok := apiErrorOf(err); ok && apiErr.Code != 0 {
		return apiErr.Code
	}
	return http.StatusInternalServerError
}

// apiErrorOf unwraps a genai.APIError whether it travels by value or by
// pointer in the error chain.
func apiErrorOf(err error) (genai.APIError, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return *p, true
	}
	return genai.APIError{}, false
}
