package lazy

// Result is the outcome of one pull on a Cursor: either an ongoing
// value, or the finished signal, which may carry a payload.
//
// A cursor reports a payload with its finished signal at most once:
// every later pull reports Finished() with no payload.
type Result[T any] struct {
	value   T
	done    bool
	payload bool
}

// Ongoing produces a Result that carries the next value of a
// sequence.
func Ongoing[T any](v T) Result[T] { return Result[T]{value: v} }

// Finished produces the finished signal without a payload.
func Finished[T any]() Result[T] { return Result[T]{done: true} }

// FinishedWith produces the finished signal with a payload.
func FinishedWith[T any](v T) Result[T] { return Result[T]{value: v, done: true, payload: true} }

// Done returns true when the result is the finished signal.
func (r Result[T]) Done() bool { return r.done }

// Value returns the value of an ongoing result, the payload of a
// finished result, or the zero value when a finished result has no
// payload.
func (r Result[T]) Value() T { return r.value }

// Payload returns the payload of a finished result. The second value
// is false for ongoing results and for finished results without a
// payload.
func (r Result[T]) Payload() (T, bool) { return r.value, r.done && r.payload }

// Get returns the value of an ongoing result, and false when the
// result is the finished signal.
func (r Result[T]) Get() (T, bool) {
	if r.done {
		var zero T
		return zero, false
	}
	return r.value, true
}
