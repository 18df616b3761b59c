// Package lazy provides generic, lazily evaluated sequences: chainable
// transformation operators over restartable or single-pass sources,
// and a multicast replay buffer that shares one evaluation of a
// single-pass source between many independent cursors.
//
// Nothing is evaluated when a sequence or an operator chain is
// constructed, or when a cursor is acquired; values are produced one
// at a time, when a cursor is pulled. Operators never modify their
// upstream sequence: they wrap it, and every cursor of an operator
// owns its own cursor of the upstream sequence and its own state
// (indexes, accumulators, partial groups).
package lazy

import "iter"

// Sequence is an immutable description of a lazy sequence of values.
// Whether it can be traversed more than once depends on its source:
// sequences built from slices or native iterators are restartable,
// sequences built with Generate are single-pass.
type Sequence[T any] struct {
	source Iterable[T]
}

// Create wraps an Iterable without evaluating it. A nil source
// produces an empty sequence.
func Create[T any](src Iterable[T]) *Sequence[T] {
	if src == nil {
		return Slice[T](nil)
	}
	return &Sequence[T]{source: src}
}

// Slice produces a restartable sequence over the elements of a
// slice. Every cursor starts at the first element; the slice is read,
// not copied, so changes to it are visible to later pulls.
func Slice[T any](in []T) *Sequence[T] {
	return &Sequence[T]{source: IterableFunc[T](func() (Cursor[T], error) {
		return &sliceCursor[T]{vals: in}, nil
	})}
}

// Variadic produces a restartable sequence from its arguments.
func Variadic[T any](in ...T) *Sequence[T] { return Slice(in) }

// FromSeq wraps a native iterator. Every cursor runs the iterator
// from the beginning, so the sequence is restartable when the
// iterator is. Return stops the underlying iterator; cursors that are
// abandoned without being exhausted or returned keep it suspended.
func FromSeq[T any](seq iter.Seq[T]) *Sequence[T] {
	return &Sequence[T]{source: IterableFunc[T](func() (Cursor[T], error) {
		return &pullCursor[T]{seq: seq}, nil
	})}
}

// Generate produces a single-pass sequence from a function that
// returns the next value, or false when there are no more values.
// Every cursor acquired from the sequence shares the same position:
// once the function has reported false, all cursors are finished.
func Generate[T any](op func() (T, bool)) *Sequence[T] {
	cur := &generatorCursor[T]{op: op}
	return &Sequence[T]{source: IterableFunc[T](func() (Cursor[T], error) { return cur, nil })}
}

// Cursor acquires a new cursor. The only errors come from sources
// that limit the number of cursors, such as memoized sequences with a
// consumer limit.
func (s *Sequence[T]) Cursor() (Cursor[T], error) { return s.source.Cursor() }

// ForEach acquires one cursor and pulls it to exhaustion, calling fn
// for every value. The error is either the error acquiring the cursor
// or the error that terminated it.
func (s *Sequence[T]) ForEach(fn func(T)) error {
	cur, err := s.Cursor()
	if err != nil {
		return err
	}

	for {
		res := cur.Next()
		if res.Done() {
			return cur.Err()
		}
		fn(res.Value())
	}
}

// Collect pulls one cursor to exhaustion and returns all values.
func (s *Sequence[T]) Collect() ([]T, error) {
	var out []T
	err := s.ForEach(func(v T) { out = append(out, v) })
	return out, err
}

// Iterator exposes the sequence as a native iterator for use with
// range. Every range loop acquires a new cursor; breaking out of the
// loop calls Return on it. Errors acquiring or pulling the cursor are
// yielded once, with the zero value, as the last element.
func (s *Sequence[T]) Iterator() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		cur, err := s.Cursor()
		if err != nil {
			yield(zero, err)
			return
		}

		for {
			res := cur.Next()
			if res.Done() {
				if err := cur.Err(); err != nil {
					yield(zero, err)
				}
				return
			}

			if !yield(res.Value(), nil) {
				cur.Return(zero)
				return
			}
		}
	}
}
