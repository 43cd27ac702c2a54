// Package errors provides custom error types for the relaychat client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrEmptyInput         = errors.New("message cannot be empty")
	ErrExchangeInProgress = errors.New("an exchange is already in progress")
	ErrEmptyReply         = errors.New("empty reply")
	ErrInvalidResponse    = errors.New("invalid response format")
	ErrInvalidBaseURL     = errors.New("invalid base URL")
	ErrInvalidHash        = errors.New("invalid password hash")
	ErrClientClosed       = errors.New("client is closed")
)

// EmptyReplyMessage is the diagnostic text used when a successful response
// carries no usable reply.
const EmptyReplyMessage = "Received an empty response from the server."

// NetworkError represents a transport failure before any response was obtained
type NetworkError struct {
	Op       string
	Endpoint string
	Cause    error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error during %s at %s: %v", e.Op, e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a new NetworkError
func NewNetworkError(op string, cause error) *NetworkError {
	return &NetworkError{Op: op, Cause: cause}
}

// NewNetworkErrorWithEndpoint creates a new NetworkError bound to an endpoint
func NewNetworkErrorWithEndpoint(op, endpoint string, cause error) *NetworkError {
	return &NetworkError{Op: op, Endpoint: endpoint, Cause: cause}
}

// ServerError represents a response that was obtained but reports failure
// or carries no usable payload.
type ServerError struct {
	StatusCode int
	Endpoint   string
	Message    string
	Body       string
}

func (e *ServerError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("server error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("server error at %s: %s", e.Endpoint, e.Message)
}

// Is matches ErrEmptyReply when the server answered without a reply
func (e *ServerError) Is(target error) bool {
	if target == ErrEmptyReply {
		return e.Message == EmptyReplyMessage
	}
	_, ok := target.(*ServerError)
	return ok
}

// NewServerError creates a new ServerError
func NewServerError(statusCode int, endpoint, message string) *ServerError {
	return &ServerError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewServerErrorWithBody creates a new ServerError keeping the raw body for diagnostics
func NewServerErrorWithBody(statusCode int, endpoint, message, body string) *ServerError {
	return &ServerError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
		Body:       body,
	}
}

// NewEmptyReplyError creates the ServerError for a success response without a reply
func NewEmptyReplyError(endpoint string) *ServerError {
	return NewServerError(0, endpoint, EmptyReplyMessage)
}

// ParseError represents a response parsing error
type ParseError struct {
	Message string
	Path    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// NewParseError creates a new ParseError
func NewParseError(message, path string) *ParseError {
	return &ParseError{Message: message, Path: path}
}

// Is allows comparison with sentinel errors
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// IsNetworkError reports whether err is (or wraps) a NetworkError
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsServerError reports whether err is (or wraps) a ServerError or ParseError.
// A malformed payload is a server-side failure from the client's point of view.
func IsServerError(err error) bool {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return true
	}
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// GetHTTPStatus returns the HTTP status carried by err, or 0
func GetHTTPStatus(err error) int {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint carried by err, or ""
func GetEndpoint(err error) string {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Endpoint
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	return ""
}

// GetResponseBody returns the raw response body carried by err, or ""
func GetResponseBody(err error) string {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Body
	}
	return ""
}
