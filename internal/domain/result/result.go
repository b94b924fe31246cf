// Package result provides a first-class outcome type for operations whose
// results must be carried as values, such as the slots of a concurrent
// composite read.
package result

// Result holds either a value or an error, never both.
type Result[T any] struct {
	value T
	err   error
}

// Ok creates a successful Result.
func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Fail creates a failed Result.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Of wraps a conventional (value, error) pair.
func Of[T any](value T, err error) Result[T] {
	if err != nil {
		return Fail[T](err)
	}
	return Ok(value)
}

// IsOk reports whether the result is a success.
func (r Result[T]) IsOk() bool {
	return r.err == nil
}

// Err returns the failure, or nil for a success.
func (r Result[T]) Err() error {
	return r.err
}

// Value returns the success value. It is the zero value for a failure; use
// Unwrap when the error matters.
func (r Result[T]) Value() T {
	return r.value
}

// Unwrap converts the result back into a (value, error) pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

// Map applies fn to a successful result. Failures short-circuit: fn is never
// invoked on an unset value.
func Map[T, U any](r Result[T], fn func(T) (U, error)) Result[U] {
	if r.err != nil {
		return Fail[U](r.err)
	}
	return Of(fn(r.value))
}

// First returns the first non-nil error in declared order, or nil when all
// succeeded. Completion order is irrelevant.
func First(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
