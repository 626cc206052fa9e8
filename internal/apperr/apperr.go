// Package apperr defines the error taxonomy shared by the store and the
// HTTP layer, and the single place errors are mapped to status codes.
package apperr

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Msg: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Msg: msg} }

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// Status maps an error to its HTTP status code. Unrecognized errors, and
// gorm errors that escaped the store layer, fall through to 500 except
// for record-not-found which keeps its 404 semantics.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case KindValidation:
			return http.StatusBadRequest
		case KindAuth:
			return http.StatusUnauthorized
		case KindNotFound:
			return http.StatusNotFound
		}
		return http.StatusInternalServerError
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Message returns the body-safe message for err. Internal detail is only
// included when expose is set; otherwise 500s collapse to a generic
// message so store errors never leak in production.
func Message(err error, expose bool) string {
	if Status(err) != http.StatusInternalServerError || expose {
		return err.Error()
	}
	return "internal server error"
}
