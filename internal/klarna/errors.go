package klarna

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// ErrorKind classifies every failure a Client call can produce. The
// classification is total: any error returned by this package carries
// exactly one kind.
type ErrorKind string

const (
	// KindPrecondition means required credential material was missing.
	// These errors are raised before any network I/O.
	KindPrecondition ErrorKind = "PRECONDITION"
	// KindInvalidInput means the caller-supplied input was malformed.
	// Also raised before any network I/O.
	KindInvalidInput   ErrorKind = "INVALID_INPUT"
	KindUnauthorized   ErrorKind = "UNAUTHORIZED"
	KindForbidden      ErrorKind = "FORBIDDEN"
	KindNotFound       ErrorKind = "NOT_FOUND"
	KindRateLimited    ErrorKind = "RATE_LIMITED"
	KindRemoteRejected ErrorKind = "REMOTE_REJECTED"
	// KindUnreachable means the request was sent but no response arrived
	// (DNS failure, connection refused, broken transport).
	KindUnreachable ErrorKind = "UNREACHABLE"
	KindTimeout     ErrorKind = "TIMEOUT"
	KindCanceled    ErrorKind = "CANCELED"
	KindUnknown     ErrorKind = "UNKNOWN"
)

// APIError is the single error type surfaced by the Klarna client.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// KindOf returns the classification of err, or KindUnknown for errors
// that did not originate from this package.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	if apiErr, ok := IsAPIError(err); ok {
		return apiErr.Kind
	}
	return KindUnknown
}

func newPreconditionError(message string) *APIError {
	return &APIError{Kind: KindPrecondition, Message: message}
}

func newInvalidInputError(message string, err error) *APIError {
	return &APIError{Kind: KindInvalidInput, Message: message, Err: err}
}

// remoteErrorBody is the error envelope the Klarna APIs return. The two
// API surfaces disagree on the field name, so both are tried.
type remoteErrorBody struct {
	ErrorMessage string `json:"error_message"`
	Message      string `json:"message"`
}

// classifyStatus maps a non-2xx response to an APIError. 401/403/404/429
// classify on status alone; everything else is a remote rejection whose
// message keeps the numeric status and the remote-provided detail.
func classifyStatus(status int, body []byte) *APIError {
	switch status {
	case http.StatusUnauthorized:
		return &APIError{
			Kind:    KindUnauthorized,
			Status:  status,
			Message: "authentication failed, check your credentials",
		}
	case http.StatusForbidden:
		return &APIError{
			Kind:    KindForbidden,
			Status:  status,
			Message: "access forbidden, check your API permissions",
		}
	case http.StatusNotFound:
		return &APIError{
			Kind:    KindNotFound,
			Status:  status,
			Message: "resource not found",
		}
	case http.StatusTooManyRequests:
		return &APIError{
			Kind:    KindRateLimited,
			Status:  status,
			Message: "rate limit exceeded, wait before retrying",
		}
	default:
		return &APIError{
			Kind:    KindRemoteRejected,
			Status:  status,
			Message: fmt.Sprintf("API error (%d): %s", status, remoteMessage(body)),
		}
	}
}

func remoteMessage(body []byte) string {
	var remote remoteErrorBody
	if err := json.Unmarshal(body, &remote); err == nil {
		if remote.ErrorMessage != "" {
			return remote.ErrorMessage
		}
		if remote.Message != "" {
			return remote.Message
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return "no error detail provided"
}

// classifyTransport maps a failure from http.Client.Do to an APIError.
// The request never produced a response at this point.
func classifyTransport(err error) *APIError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &APIError{Kind: KindTimeout, Message: "request timed out", Err: err}
	case errors.Is(err, context.Canceled):
		return &APIError{Kind: KindCanceled, Message: "request canceled", Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return &APIError{Kind: KindTimeout, Message: "request timed out", Err: err}
		}
		return &APIError{
			Kind:    KindUnreachable,
			Message: "no response from the Klarna API, check your connection",
			Err:     err,
		}
	}

	return &APIError{Kind: KindUnknown, Message: "request failed", Err: err}
}
