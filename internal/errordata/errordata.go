package errordata

import (
  "errors"
  "fmt"
  "net/http"
)

// Kind classifies an error for the single boundary translation in
// HTTPStatus. Services return *Error values; handlers never pick status
// codes themselves.
type Kind int

const (
  Validation Kind = iota
  Unauthorized
  Forbidden
  NotFound
  Conflict
  Internal
)

func (k Kind) String() string {
  switch k {
  case Validation:
    return "validation"
  case Unauthorized:
    return "unauthorized"
  case Forbidden:
    return "forbidden"
  case NotFound:
    return "not_found"
  case Conflict:
    return "conflict"
  default:
    return "internal"
  }
}

type Error struct {
  Kind    Kind
  Message string
  Fields  map[string]string
  Err     error
}

func (e *Error) Error() string {
  if e.Err != nil {
    return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
  }
  return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
  return e.Err
}

func New(kind Kind, message string) *Error {
  return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
  return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, message string, err error) *Error {
  return &Error{Kind: kind, Message: message, Err: err}
}

// FieldErrors accumulates per-field validation failures. The pipeline in
// utils appends into it and callers turn a non-empty accumulator into a
// single Validation error returned verbatim to the client.
type FieldErrors map[string]string

func (fe FieldErrors) Add(field, message string) {
  if _, exists := fe[field]; exists {
    return
  }
  fe[field] = message
}

func (fe FieldErrors) HasErrors() bool {
  return len(fe) > 0
}

func (fe FieldErrors) AsError() *Error {
  if !fe.HasErrors() {
    return nil
  }
  return &Error{Kind: Validation, Message: "validation failed", Fields: fe}
}

// KindOf walks the error chain; anything unclassified is Internal so
// unexpected failures surface as 500s without leaking detail.
func KindOf(err error) Kind {
  var e *Error
  if errors.As(err, &e) {
    return e.Kind
  }
  return Internal
}

func FieldsOf(err error) map[string]string {
  var e *Error
  if errors.As(err, &e) {
    return e.Fields
  }
  return nil
}

// MessageOf returns the client-safe message for err. Internal errors get
// a generic message so exception text never reaches the client.
func MessageOf(err error) string {
  var e *Error
  if errors.As(err, &e) && e.Kind != Internal {
    return e.Message
  }
  return "internal server error"
}

// HTTPStatus is the one place error kinds map to response codes.
func HTTPStatus(err error) int {
  switch KindOf(err) {
  case Validation:
    return http.StatusBadRequest
  case Unauthorized:
    return http.StatusUnauthorized
  case Forbidden:
    return http.StatusForbidden
  case NotFound:
    return http.StatusNotFound
  case Conflict:
    return http.StatusConflict
  default:
    return http.StatusInternalServerError
  }
}
