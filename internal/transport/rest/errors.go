package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// Kind classifies a failed call so callers can present it without parsing
// status codes.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindForbidden
	KindNotFound
	KindConflict
	KindServer
	KindNetwork
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is the single normalized error returned by every REST call.
type Error struct {
	Op      string
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return Fallback(e.Op)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fallback is the human message used when the server supplies none.
func Fallback(op string) string {
	if op == "" {
		return "Request failed"
	}
	return "Failed to " + op
}

// errorBody covers both server error shapes we know about:
// {"message": "...", "details": "..."} and {"error": {"code": "...", "message": "..."}}.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusError builds an Error from a non-2xx response.
func statusError(op string, status int, body []byte) *Error {
	e := &Error{Op: op, Kind: kindForStatus(status), Status: status}

	var b errorBody
	if len(body) > 0 && json.Unmarshal(body, &b) == nil {
		e.Message = strings.TrimSpace(b.Message)
		if len(b.Error) > 0 {
			var env errorEnvelope
			if json.Unmarshal(b.Error, &env) == nil {
				e.Code = env.Code
				if e.Message == "" {
					e.Message = strings.TrimSpace(env.Message)
				}
			} else {
				var s string
				if json.Unmarshal(b.Error, &s) == nil && e.Message == "" {
					e.Message = strings.TrimSpace(s)
				}
			}
		}
	}
	if e.Message == "" {
		e.Message = Fallback(op)
	}
	e.Err = errors.New(http.StatusText(status))
	return e
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindValidation
	default:
		return KindUnknown
	}
}

// Normalize converts any error from a call into an *Error. Errors that are
// already normalized are returned unchanged.
func Normalize(op string, err error) error {
	if err == nil {
		return nil
	}
	var re *Error
	if errors.As(err, &re) {
		return re
	}

	kind := KindUnknown
	var netErr net.Error
	var urlErr *url.Error
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = KindCanceled
	case errors.As(err, &netErr), errors.As(err, &urlErr):
		kind = KindNetwork
	}
	return &Error{Op: op, Kind: kind, Message: Fallback(op), Err: err}
}

// KindOf reports the kind of a normalized error, or KindUnknown.
func KindOf(err error) Kind {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind
	}
	return KindUnknown
}

// MessageOf returns the human message for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var re *Error
	if errors.As(err, &re) {
		return re.Error()
	}
	return err.Error()
}

// IsNotFound is shorthand for KindOf(err) == KindNotFound.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
