package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrTimeout marks a call that lost the race against its timer,
	// whether or not the transport ever settled.
	ErrTimeout = errors.New("request timed out")

	// ErrProtocol marks a malformed exchange: a request that could not be
	// built or a success response whose envelope did not decode. Sending
	// the same bytes again cannot help, so these are never retried.
	ErrProtocol = errors.New("protocol error")
)

// HTTPError is a non-2xx response from the server.
type HTTPError struct {
	Status int
	Msg    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Msg)
}

// BusinessError is an HTTP-successful response whose envelope carried a
// failure code. The server processed and explicitly rejected the request,
// so these are never retried.
type BusinessError struct {
	Code int
	Msg  string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("business error %d: %s", e.Code, e.Msg)
}

// Statuses worth retrying: the request may never have been processed, or
// the condition is transient by definition.
var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

var statusMessages = map[int]string{
	http.StatusBadRequest:          "Invalid request",
	http.StatusUnauthorized:        "Please sign in again",
	http.StatusForbidden:           "You do not have permission to do that",
	http.StatusNotFound:            "Requested resource was not found",
	http.StatusConflict:            "Request conflicts with current state",
	http.StatusRequestTimeout:      "Server took too long to respond",
	http.StatusTooManyRequests:     "Too many requests, slow down",
	http.StatusInternalServerError: "Server error, please try again",
	http.StatusBadGateway:          "Server is temporarily unreachable",
	http.StatusServiceUnavailable:  "Service is temporarily unavailable",
	http.StatusGatewayTimeout:      "Server took too long to respond",
}

func statusMessage(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return fmt.Sprintf("Request failed (%d)", status)
}

// Retryable reports whether err is worth another attempt: transport-level
// failures, timeouts, and the allow-listed HTTP statuses. Business errors
// are always final.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrProtocol) {
		return false
	}
	var be *BusinessError
	if errors.As(err, &be) {
		return false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return retryableStatus[he.Status]
	}
	var ne net.Error
	if errors.As(err, &ne) {
		return true
	}
	// Anything else coming out of the transport (connection refused, DNS
	// failure, reset) is treated as a transient connection failure.
	return true
}
