package models

import (
	"errors"
	"fmt"

	apierrors "github.com/diogo/relaychat/internal/errors"
)

// ExchangeRequest is the outgoing payload of one exchange
type ExchangeRequest struct {
	Message string `json:"message"`
}

// ResultKind tags the variant held by an ExchangeResult
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultServerError
	ResultNetworkError
)

// String returns a short name for logs
func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultServerError:
		return "server_error"
	case ResultNetworkError:
		return "network_error"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// ExchangeResult is the outcome of one exchange.
// Reply is set for ResultSuccess; Message, StatusCode and Err describe failures.
type ExchangeResult struct {
	Kind       ResultKind
	Reply      string
	Message    string
	StatusCode int
	Err        error
}

// Success builds a successful result
func Success(reply string) ExchangeResult {
	return ExchangeResult{Kind: ResultSuccess, Reply: reply}
}

// ServerFailure builds a server error result
func ServerFailure(message string, statusCode int, err error) ExchangeResult {
	return ExchangeResult{Kind: ResultServerError, Message: message, StatusCode: statusCode, Err: err}
}

// NetworkFailure builds a network error result
func NetworkFailure(message string, err error) ExchangeResult {
	return ExchangeResult{Kind: ResultNetworkError, Message: message, Err: err}
}

// OK reports whether the exchange produced a reply
func (r ExchangeResult) OK() bool {
	return r.Kind == ResultSuccess
}

// ResultFromError classifies err into an ExchangeResult.
// Anything that is not recognizably a server-side failure counts as a network failure,
// since no usable response was obtained.
func ResultFromError(err error) ExchangeResult {
	if apierrors.IsServerError(err) {
		message := err.Error()
		var srvErr *apierrors.ServerError
		if errors.As(err, &srvErr) {
			message = srvErr.Message
		}
		return ServerFailure(message, apierrors.GetHTTPStatus(err), err)
	}
	return NetworkFailure(err.Error(), err)
}
