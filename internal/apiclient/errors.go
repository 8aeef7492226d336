package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a domain error by the store that raised it.
type Kind string

const (
	KindAuth    Kind = "auth"
	KindProfile Kind = "profile"
	KindLink    Kind = "link"
)

// Sentinels for errors.Is; they match any *Error of the same Kind.
var (
	ErrAuth    = &Error{Kind: KindAuth}
	ErrProfile = &Error{Kind: KindProfile}
	ErrLink    = &Error{Kind: KindLink}
)

// ResponseError is returned by Client for any non-2xx response.
type ResponseError struct {
	StatusCode int
	// Message is the server's "error" field, empty if the body had none.
	Message    string
	Body       []byte
}

func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Error is the user-facing error raised by the session, profile, and link
// stores. Message is safe to display.
type Error struct {
	Kind    Kind
	Message string
	// Status is the HTTP status of the failed call, 0 if no response arrived.
	Status  int
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a kind sentinel matching e.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Normalize converts any failure into an *Error of the given kind. The
// server-supplied message is used when one can be found in the chain,
// otherwise fallback.
func Normalize(raw error, kind Kind, fallback string) *Error {
	e := &Error{Kind: kind, Message: fallback, Err: raw}
	var re *ResponseError
	if errors.As(raw, &re) {
		e.Status = re.StatusCode
		if re.Message != "" {
			e.Message = re.Message
		}
	}
	return e
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.StatusCode
	}
	return 0
}
