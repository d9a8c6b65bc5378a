package application

import "fmt"

// ResultKind tags the outcome of a service operation.
type ResultKind int

const (
	KindOk ResultKind = iota
	KindBadRequest
	KindNotFound
	KindForbidden
)

// String returns a stable label used in logs.
func (k ResultKind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// Result is the outcome returned by every service operation. Data is only
// meaningful when Kind is KindOk; Errors is only populated otherwise.
type Result[T any] struct {
	Kind   ResultKind
	Data   T
	Errors []string
}

// Ok wraps a successful payload.
func Ok[T any](data T) Result[T] {
	return Result[T]{Kind: KindOk, Data: data}
}

// BadRequest reports invalid input or a failed write.
func BadRequest[T any](messages ...string) Result[T] {
	return Result[T]{Kind: KindBadRequest, Errors: cloneMessages(messages)}
}

// NotFound reports a missing record.
func NotFound[T any](messages ...string) Result[T] {
	return Result[T]{Kind: KindNotFound, Errors: cloneMessages(messages)}
}

// NotFoundID reports a missing record using the conventional message.
func NotFoundID[T any](id string) Result[T] {
	return NotFound[T](fmt.Sprintf("there is no object with id: %s", id))
}

// Forbidden reports an ownership failure.
func Forbidden[T any](messages ...string) Result[T] {
	return Result[T]{Kind: KindForbidden, Errors: cloneMessages(messages)}
}

// Code mirrors the kind as an HTTP-style status number.
func (r Result[T]) Code() int {
	switch r.Kind {
	case KindOk:
		return 200
	case KindBadRequest:
		return 400
	case KindNotFound:
		return 404
	case KindForbidden:
		return 403
	}
	return 500
}

// IsOk reports whether the operation succeeded.
func (r Result[T]) IsOk() bool {
	return r.Kind == KindOk
}

func cloneMessages(messages []string) []string {
	if len(messages) == 0 {
		return []string{}
	}
	out := make([]string, len(messages))
	copy(out, messages)
	return out
}
