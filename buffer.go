package lazy

import "github.com/tychoish/lazy/ers"

// Buffer groups consecutive values of seq into slices of size
// values. A group is emitted as soon as it is full; when seq ends with
// a partial group, that group is emitted once before the finished
// result. Every emitted slice is newly allocated.
//
// Buffer returns an ErrInvalidArgument error when size is not
// positive.
func Buffer[T any](seq *Sequence[T], size int) (*Sequence[[]T], error) {
	if size <= 0 {
		return nil, ers.Wrap(ErrInvalidArgument, "buffer size must be larger than 0")
	}

	return derive(seq, func(up Cursor[T]) Cursor[[]T] {
		return &bufferCursor[T]{link: link[T]{up: up}, size: size}
	}), nil
}

type bufferCursor[T any] struct {
	link[T]
	size  int
	group []T
	ended bool
}

func (c *bufferCursor[T]) Next() Result[[]T] {
	if c.ended {
		return Finished[[]T]()
	}

	for len(c.group) < c.size {
		val, ok := c.pull()
		if !ok {
			break
		}
		if c.group == nil {
			c.group = make([]T, 0, c.size)
		}
		c.group = append(c.group, val)
	}

	if len(c.group) == 0 {
		c.ended = true
		return Finished[[]T]()
	}

	out := c.group
	c.group = nil
	return Ongoing(out)
}

func (c *bufferCursor[T]) Return(v []T) Result[[]T] {
	c.stop()
	c.ended = true
	c.group = nil
	return FinishedWith(v)
}
