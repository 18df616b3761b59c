package lazy

// Scan produces a running fold of seq: for every value it computes
// acc = op(acc, value, index), starting from seed, and emits the new
// accumulator.
//
// The pull that observes the end of seq reports the final
// accumulator as the payload of the finished result. The cursor
// drops its accumulator at that point, so later pulls report a
// finished result without a payload.
func Scan[T, A any](seq *Sequence[T], op func(acc A, value T, idx int) A, seed A) *Sequence[A] {
	return derive(seq, func(up Cursor[T]) Cursor[A] {
		return &scanCursor[T, A]{link: link[T]{up: up}, op: op, acc: seed}
	})
}

type scanCursor[T, A any] struct {
	link[T]
	op       func(A, T, int) A
	acc      A
	idx      int
	signaled bool
}

func (c *scanCursor[T, A]) Next() Result[A] {
	if c.signaled {
		return Finished[A]()
	}

	val, ok := c.pull()
	if !ok {
		return FinishedWith(c.release())
	}

	c.acc = c.op(c.acc, val, c.idx)
	c.idx++
	return Ongoing(c.acc)
}

func (c *scanCursor[T, A]) Return(v A) Result[A] {
	c.stop()
	c.release()
	return FinishedWith(v)
}

// release marks the finished signal as delivered and hands back the
// accumulator, clearing the cursor's reference to it.
func (c *scanCursor[T, A]) release() (out A) {
	out, c.acc = c.acc, out
	c.signaled = true
	c.op = nil
	return out
}
