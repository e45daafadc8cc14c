package pipeline

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// envelope is the {code, message, data} wrapper the backend puts around every
// payload. FastAPI's own validation errors use "detail" instead of "message".
type envelope struct {
	Code    *int            `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Detail  json.RawMessage `json:"detail"`
}

// message is the server text, falling back to detail when it is a plain string.
func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	if len(e.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		return s
	}
	return string(e.Detail)
}

// classify maps a received response to an Outcome. Non-2xx statuses decide on
// their own; a 2xx body must be an envelope and its code decides.
func classify(status int, header http.Header, body []byte, successCode int) Outcome {
	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if status < 200 || status >= 300 {
		return classifyCode(status, env, header, false)
	}
	if decodeErr != nil || env.Code == nil {
		return ServerError{Status: status, Message: "malformed response envelope"}
	}
	if *env.Code == successCode {
		return Success{Data: env.Data, Message: env.Message}
	}
	return classifyCode(*env.Code, env, header, true)
}

func classifyCode(code int, env envelope, header http.Header, embedded bool) Outcome {
	msg := env.message()
	switch {
	case code == http.StatusUnauthorized:
		return AuthFailure{Message: msg}
	case code == http.StatusForbidden:
		return Forbidden{Message: msg}
	case code == http.StatusNotFound:
		return NotFound{Message: msg}
	case code == http.StatusTooManyRequests:
		return RateLimited{Message: msg, RetryAfter: retryAfter(header)}
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return ValidationError{Status: code, Message: msg, Detail: env.Detail}
	case !embedded && code >= 400 && code < 500:
		return ValidationError{Status: code, Message: msg, Detail: env.Detail}
	default:
		return ServerError{Status: code, Message: msg}
	}
}

// retryAfter reads Retry-After as delay-seconds or an HTTP date.
func retryAfter(header http.Header) time.Duration {
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
