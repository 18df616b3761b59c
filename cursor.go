package lazy

import "iter"

// Cursor is one traversal of a Sequence. Next pulls the next result;
// once a cursor has returned a finished result, every later call to
// Next also returns a finished result, without touching the source
// again.
//
// Return terminates the cursor early: it reports a finished result
// carrying v, and releases everything the cursor holds upstream. It is
// safe to call Return on a cursor that has already finished.
//
// Err reports the failure, if any, that terminated the cursor. It is
// nil while the cursor is ongoing and after normal exhaustion.
//
// Cursors are not safe for concurrent use.
type Cursor[T any] interface {
	Next() Result[T]
	Return(v T) Result[T]
	Err() error
}

// Iterable is anything that can produce a Cursor. Acquiring a cursor
// never evaluates the source: work only happens when the cursor is
// pulled. Restartable iterables produce an independent cursor for
// every call, single-pass iterables produce the same cursor.
type Iterable[T any] interface {
	Cursor() (Cursor[T], error)
}

// IterableFunc adapts a function to the Iterable interface.
type IterableFunc[T any] func() (Cursor[T], error)

// Cursor calls the underlying function.
func (fn IterableFunc[T]) Cursor() (Cursor[T], error) { return fn() }

type sliceCursor[T any] struct {
	vals []T
	idx  int
	done bool
}

func (c *sliceCursor[T]) Err() error { return nil }

func (c *sliceCursor[T]) Next() Result[T] {
	if c.done {
		return Finished[T]()
	}

	if c.idx >= len(c.vals) {
		c.done = true
		c.vals = nil
		return Finished[T]()
	}

	val := c.vals[c.idx]
	c.idx++
	return Ongoing(val)
}

func (c *sliceCursor[T]) Return(v T) Result[T] {
	c.done = true
	c.vals = nil
	return FinishedWith(v)
}

// generatorCursor is shared by every acquisition of a Generate
// sequence.
type generatorCursor[T any] struct {
	op func() (T, bool)
}

func (c *generatorCursor[T]) Err() error { return nil }

func (c *generatorCursor[T]) Next() Result[T] {
	if c.op == nil {
		return Finished[T]()
	}

	val, ok := c.op()
	if !ok {
		c.op = nil
		return Finished[T]()
	}
	return Ongoing(val)
}

func (c *generatorCursor[T]) Return(v T) Result[T] {
	c.op = nil
	return FinishedWith(v)
}

// pullCursor drives a native iterator with iter.Pull; the pull state
// is created on the first call to Next.
type pullCursor[T any] struct {
	seq  iter.Seq[T]
	next func() (T, bool)
	stop func()
	done bool
}

func (c *pullCursor[T]) Err() error { return nil }

func (c *pullCursor[T]) Next() Result[T] {
	if c.done {
		return Finished[T]()
	}

	if c.next == nil {
		c.next, c.stop = iter.Pull(c.seq)
		c.seq = nil
	}

	val, ok := c.next()
	if !ok {
		c.finish()
		return Finished[T]()
	}
	return Ongoing(val)
}

func (c *pullCursor[T]) Return(v T) Result[T] {
	c.finish()
	return FinishedWith(v)
}

func (c *pullCursor[T]) finish() {
	if c.stop != nil {
		c.stop()
	}
	c.done = true
	c.seq = nil
	c.next = nil
	c.stop = nil
}
