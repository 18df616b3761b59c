package lazy

import "github.com/tychoish/lazy/ers"

// derive builds a sequence whose cursors wrap a fresh cursor of the
// upstream sequence. Acquisition errors from upstream are returned to
// the caller acquiring the derived cursor.
func derive[T, O any](seq *Sequence[T], build func(up Cursor[T]) Cursor[O]) *Sequence[O] {
	return &Sequence[O]{source: IterableFunc[O](func() (Cursor[O], error) {
		up, err := seq.Cursor()
		if err != nil {
			return nil, err
		}
		return build(up), nil
	})}
}

// link is the upstream half of an operator cursor. After the upstream
// cursor finishes (or is returned) the link drops it and never pulls
// again.
type link[T any] struct {
	up   Cursor[T]
	done bool
	err  error
}

func (l *link[T]) pull() (out T, _ bool) {
	if l.done {
		return out, false
	}

	res := l.up.Next()
	if res.Done() {
		l.finish()
		return out, false
	}

	return res.Value(), true
}

func (l *link[T]) finish() {
	if l.up != nil {
		l.err = ers.Join(l.err, l.up.Err())
	}
	l.up = nil
	l.done = true
}

func (l *link[T]) stop() {
	if l.up != nil {
		var zero T
		l.up.Return(zero)
	}
	l.finish()
}

func (l *link[T]) fail(err error) {
	l.stop()
	l.err = ers.Join(l.err, err)
}

func (l *link[T]) Err() error { return l.err }

// Map produces a sequence of the results of op for every value of
// seq. The index passed to op counts the values seen by this
// operator, starting at 0 for every cursor.
func Map[T, O any](seq *Sequence[T], op func(T, int) O) *Sequence[O] {
	return derive(seq, func(up Cursor[T]) Cursor[O] {
		return &mapCursor[T, O]{link: link[T]{up: up}, op: op}
	})
}

// Map is the same-type form of the Map function, for chaining.
func (s *Sequence[T]) Map(op func(T, int) T) *Sequence[T] { return Map(s, op) }

type mapCursor[T, O any] struct {
	link[T]
	op  func(T, int) O
	idx int
}

func (c *mapCursor[T, O]) Next() Result[O] {
	val, ok := c.pull()
	if !ok {
		c.op = nil
		return Finished[O]()
	}

	out := c.op(val, c.idx)
	c.idx++
	return Ongoing(out)
}

func (c *mapCursor[T, O]) Return(v O) Result[O] {
	c.stop()
	c.op = nil
	return FinishedWith(v)
}

// Filter produces a sequence of the values of s for which check
// returns true. The index passed to check counts every upstream
// value; operators after Filter only count the values that passed.
func (s *Sequence[T]) Filter(check func(T, int) bool) *Sequence[T] {
	return derive(s, func(up Cursor[T]) Cursor[T] {
		return &filterCursor[T]{link: link[T]{up: up}, check: check}
	})
}

type filterCursor[T any] struct {
	link[T]
	check func(T, int) bool
	idx   int
}

func (c *filterCursor[T]) Next() Result[T] {
	for {
		val, ok := c.pull()
		if !ok {
			c.check = nil
			return Finished[T]()
		}

		idx := c.idx
		c.idx++
		if c.check(val, idx) {
			return Ongoing(val)
		}
	}
}

func (c *filterCursor[T]) Return(v T) Result[T] {
	c.stop()
	c.check = nil
	return FinishedWith(v)
}

// Do produces a sequence with the same values as s, and calls op
// with every value (and its index) as it passes through.
func (s *Sequence[T]) Do(op func(T, int)) *Sequence[T] {
	return derive(s, func(up Cursor[T]) Cursor[T] {
		return &doCursor[T]{link: link[T]{up: up}, op: op}
	})
}

type doCursor[T any] struct {
	link[T]
	op  func(T, int)
	idx int
}

func (c *doCursor[T]) Next() Result[T] {
	val, ok := c.pull()
	if !ok {
		c.op = nil
		return Finished[T]()
	}

	c.op(val, c.idx)
	c.idx++
	return Ongoing(val)
}

func (c *doCursor[T]) Return(v T) Result[T] {
	c.stop()
	c.op = nil
	return FinishedWith(v)
}

// FlatMap calls op for every value of seq and flattens the returned
// iterables, one level deep, into the output sequence, preserving
// order. The index passed to op counts upstream values, not output
// values. A nil iterable contributes no values.
//
// Returning a FlatMap cursor returns the inner cursor that is
// currently open before returning the upstream cursor. When an inner
// iterable cannot produce a cursor, the FlatMap cursor finishes and
// reports the error from Err.
func FlatMap[T, O any](seq *Sequence[T], op func(T, int) Iterable[O]) *Sequence[O] {
	return derive(seq, func(up Cursor[T]) Cursor[O] {
		return &flatMapCursor[T, O]{link: link[T]{up: up}, op: op}
	})
}

type flatMapCursor[T, O any] struct {
	link[T]
	op    func(T, int) Iterable[O]
	inner Cursor[O]
	idx   int
}

func (c *flatMapCursor[T, O]) Next() Result[O] {
	for {
		if c.inner != nil {
			res := c.inner.Next()
			if !res.Done() {
				return Ongoing(res.Value())
			}

			err := c.inner.Err()
			c.inner = nil
			if err != nil {
				c.fail(err)
			}
		}

		val, ok := c.pull()
		if !ok {
			c.op = nil
			return Finished[O]()
		}

		it := c.op(val, c.idx)
		c.idx++
		if it == nil {
			continue
		}

		inner, err := it.Cursor()
		if err != nil {
			c.fail(err)
			c.op = nil
			return Finished[O]()
		}
		c.inner = inner
	}
}

func (c *flatMapCursor[T, O]) Return(v O) Result[O] {
	if c.inner != nil {
		var zero O
		c.inner.Return(zero)
		c.inner = nil
	}
	c.stop()
	c.op = nil
	return FinishedWith(v)
}
