package contract

// Signal is the result of a degradable external call. A fetch that
// fails does not abort the run; the consuming factor substitutes a
// neutral score and records the reason, so the failure travels as a
// value alongside the data it replaces.
type Signal[T any] struct {
	value  T
	reason string
	ok     bool
}

// Ok wraps a successful fetch result.
func Ok[T any](value T) Signal[T] {
	return Signal[T]{value: value, ok: true}
}

// Unavailable marks a fetch that could not be served, with the reason
// that downstream detail strings will carry.
func Unavailable[T any](reason string) Signal[T] {
	return Signal[T]{reason: reason}
}

// Available reports whether the fetch succeeded.
func (s Signal[T]) Available() bool {
	return s.ok
}

// Value returns the fetched data. It is the zero value when the signal
// is unavailable.
func (s Signal[T]) Value() T {
	return s.value
}

// Reason returns why the fetch was unavailable, or an empty string.
func (s Signal[T]) Reason() string {
	return s.reason
}
