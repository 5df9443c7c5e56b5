// Package apperr defines the error kinds surfaced by the service.
//
// Every use case returns either nil or an *Error. The HTTP layer maps the
// Kind to a status code in one place; nothing else decides statuses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Kind classifies an error for automated handling.
type Kind string

const (
	KindBadRequest   Kind = "bad request"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal error"
)

// Error carries a kind, a human-readable message, the logical operation
// where it happened and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		fmt.Fprintf(&b, "<%s>", e.Kind)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an error of the given kind and records the call stack.
func E(kind Kind, op, msg string, cause error) error {
	return pkgerrors.WithStack(&Error{Kind: kind, Op: op, Msg: msg, Err: cause})
}

func BadRequest(op, msg string) error   { return E(KindBadRequest, op, msg, nil) }
func Unauthorized(op, msg string) error { return E(KindUnauthorized, op, msg, nil) }
func Forbidden(op, msg string) error    { return E(KindForbidden, op, msg, nil) }
func NotFound(op, msg string) error     { return E(KindNotFound, op, msg, nil) }
func Conflict(op, msg string) error     { return E(KindConflict, op, msg, nil) }

// Internal wraps an unexpected failure, typically a store error.
func Internal(op, msg string, cause error) error { return E(KindInternal, op, msg, cause) }

// KindOf returns the kind of the outermost *Error in the chain, or
// KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e.Kind != "" {
		return e.Kind
	}
	return KindInternal
}

// Message returns the client-facing message of err. Unclassified errors get
// a generic text so store internals do not leak.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal server error"
	}
	if e.Msg != "" {
		return e.Msg
	}
	return string(e.Kind)
}

// HTTPStatus maps a kind to its response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Stack renders err with the stack captured at creation.
func Stack(err error) string {
	return fmt.Sprintf("%+v", err)
}
