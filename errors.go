package gemkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError carries the full context of a failed API exchange: the HTTP
// status, the structured error code/status string the service returned,
// and a wrapped sentinel for errors.Is classification.
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gemini: %s (status=%d, code=%s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("gemini: %s", e.Message)
}

// Unwrap returns the classification sentinel for error chaining.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Sentinel errors for classification.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrRateLimited  = errors.New("rate limited")
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")

	// ErrTransport marks connectivity failures surfaced verbatim from the
	// HTTP client. The core never retries them.
	ErrTransport = errors.New("transport error")

	// ErrDecode marks a response body that could not be parsed. The
	// APIError message includes a fragment of the offending payload.
	ErrDecode = errors.New("decode error")

	// ErrTruncatedStream marks a streaming response that ended in the
	// middle of a framing unit.
	ErrTruncatedStream = errors.New("truncated stream")

	// ErrFileFailed marks an uploaded file whose server-side processing
	// ended in the FAILED state.
	ErrFileFailed = errors.New("file processing failed")
)

var errMissingUploadURL = errors.New("no upload URL in response headers")

// Build-time validation errors. These are local and never reach the
// network.
var (
	ErrNoContent      = errors.New("no content: add at least one turn using System(), User(), or Message()")
	ErrNoRequests     = errors.New("no requests: add at least one request using Request()")
	ErrNoInput        = errors.New("no input: add at least one text using Text()")
	ErrMultipleInputs = errors.New("multiple inputs: use ExecuteBatch for more than one text")
)

// apiErrorBody mirrors the service's structured error envelope:
// {"error":{"code":400,"message":"...","status":"INVALID_ARGUMENT"}}
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// normalizeAPIError converts a non-2xx response into an APIError with the
// matching sentinel.
func normalizeAPIError(status int, body []byte) error {
	var envelope apiErrorBody
	_ = json.Unmarshal(body, &envelope)

	message := envelope.Error.Message
	if message == "" {
		message = http.StatusText(status)
	}

	code := envelope.Error.Status
	if code == "" {
		code = "unknown_error"
	}

	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     sentinelForStatus(status),
	}
}

// sentinelForStatus maps an HTTP status code to a package sentinel.
func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrUnauthorized
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrServer
	}
}

// newTransportError wraps a connectivity failure.
func newTransportError(err error) error {
	return &APIError{
		Message: err.Error(),
		Err:     ErrTransport,
	}
}

// newDecodeError wraps a parse failure, keeping a fragment of the raw
// payload so API drift can be diagnosed from the error alone.
func newDecodeError(err error, raw []byte) error {
	message := err.Error()
	if len(raw) > 0 {
		fragment := raw
		if len(fragment) > 256 {
			fragment = fragment[:256]
		}
		message = fmt.Sprintf("%s (fragment: %s)", message, fragment)
	}
	return &APIError{
		Message: message,
		Err:     ErrDecode,
	}
}
