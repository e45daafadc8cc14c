package pipeline

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Kind names an outcome class. It doubles as the metrics label.
type Kind string

const (
	KindSuccess         Kind = "success"
	KindAuthFailure     Kind = "auth_failure"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindRateLimited     Kind = "rate_limited"
	KindValidationError Kind = "validation_error"
	KindServerError     Kind = "server_error"
	KindNetworkError    Kind = "network_error"
)

// Outcome is the classification of one API call. The set of implementations
// is closed: Success, AuthFailure, Forbidden, NotFound, RateLimited,
// ValidationError, ServerError and NetworkError. Every case except Success is
// also an error.
type Outcome interface {
	Kind() Kind
	// Err returns nil for Success and the outcome itself otherwise
	Err() error
	sealed()
}

var (
	_ Outcome = Success{}
	_ Outcome = AuthFailure{}
	_ Outcome = Forbidden{}
	_ Outcome = NotFound{}
	_ Outcome = RateLimited{}
	_ Outcome = ValidationError{}
	_ Outcome = ServerError{}
	_ Outcome = NetworkError{}
)

// Success carries the envelope's data field untouched.
type Success struct {
	Data    json.RawMessage
	Message string
}

func (Success) Kind() Kind { return KindSuccess }
func (Success) Err() error { return nil }
func (Success) sealed()    {}

// Decode unmarshals Data into v. An absent or null payload leaves v untouched.
func (s Success) Decode(v any) error {
	if len(s.Data) == 0 || string(s.Data) == "null" {
		return nil
	}
	return json.Unmarshal(s.Data, v)
}

// AuthFailure means the credentials were rejected (HTTP 401 or envelope code 401).
type AuthFailure struct {
	Message string
}

func (AuthFailure) Kind() Kind   { return KindAuthFailure }
func (o AuthFailure) Err() error { return o }
func (AuthFailure) sealed()      {}
func (o AuthFailure) Error() string {
	return withMessage("authentication required", o.Message)
}

type Forbidden struct {
	Message string
}

func (Forbidden) Kind() Kind   { return KindForbidden }
func (o Forbidden) Err() error { return o }
func (Forbidden) sealed()      {}
func (o Forbidden) Error() string {
	return withMessage("forbidden", o.Message)
}

type NotFound struct {
	Message string
}

func (NotFound) Kind() Kind   { return KindNotFound }
func (o NotFound) Err() error { return o }
func (NotFound) sealed()      {}
func (o NotFound) Error() string {
	return withMessage("not found", o.Message)
}

// RateLimited carries the server's Retry-After hint, zero when absent.
type RateLimited struct {
	Message    string
	RetryAfter time.Duration
}

func (RateLimited) Kind() Kind   { return KindRateLimited }
func (o RateLimited) Err() error { return o }
func (RateLimited) sealed()      {}
func (o RateLimited) Error() string {
	msg := withMessage("rate limited", o.Message)
	if o.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", o.RetryAfter)
	}
	return msg
}

// ValidationError is a rejected request. Message is the server's text verbatim;
// Detail keeps the raw "detail" field when the server sent one.
type ValidationError struct {
	Status  int
	Message string
	Detail  json.RawMessage
}

func (ValidationError) Kind() Kind   { return KindValidationError }
func (o ValidationError) Err() error { return o }
func (ValidationError) sealed()      {}
func (o ValidationError) Error() string {
	if o.Message != "" {
		return o.Message
	}
	return "invalid request"
}

type ServerError struct {
	Status  int
	Message string
}

func (ServerError) Kind() Kind   { return KindServerError }
func (o ServerError) Err() error { return o }
func (ServerError) sealed()      {}
func (o ServerError) Error() string {
	text := http.StatusText(o.Status)
	if text == "" {
		text = "server error"
	}
	return withMessage(fmt.Sprintf("%d %s", o.Status, text), o.Message)
}

// NetworkError means no usable response arrived: connection refused, DNS
// failure, timeout or cancellation by the caller.
type NetworkError struct {
	Cause error
}

func (NetworkError) Kind() Kind   { return KindNetworkError }
func (o NetworkError) Err() error { return o }
func (NetworkError) sealed()      {}
func (o NetworkError) Error() string {
	if o.Cause == nil {
		return "network error"
	}
	return "network error: " + o.Cause.Error()
}
func (o NetworkError) Unwrap() error { return o.Cause }

func withMessage(prefix, message string) string {
	if message == "" {
		return prefix
	}
	return prefix + ": " + message
}
