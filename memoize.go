package lazy

import (
	"github.com/tychoish/lazy/ers"
	"github.com/tychoish/lazy/internal"
)

// Memoize returns a multicast sequence: every cursor acquired from it
// observes the same values as every other cursor, in the same order,
// while the values of s are computed at most once per index. Cursors
// may be pulled at their own pace and in any interleaving. This makes
// it possible to share single-pass or side-effecting sequences
// between several readers.
//
// The cursor of s is acquired when the first value is needed, and
// values are buffered only until every cursor that can still read
// them has done so.
//
// Without a consumer limit, any number of cursors may be acquired,
// and, because a new cursor replays the sequence from the first value,
// every buffered value is retained for the lifetime of the sequence.
//
// With a consumer limit (MemoizeConfConsumerLimit), acquiring a
// cursor while that many cursors are live fails with
// ErrResourceExhausted. The limit is also the number of readers the
// buffer keeps values for: a value is dropped as soon as every live
// cursor has read it and no slot is left for a later cursor.
// Returning a cursor frees its slot for a new cursor, which replays
// the retained values. A cursor that reaches the end of s uses up its
// slot: once every slot has been used up, no further cursors can be
// acquired. Cursors that are abandoned hold on to their slot.
//
// Memoize returns an ErrInvalidArgument error when the options are
// invalid.
func (s *Sequence[T]) Memoize(opts ...OptionProvider[*MemoizeConf]) (*Sequence[T], error) {
	conf := &MemoizeConf{}
	if err := applyOptions(conf, opts...); err != nil {
		return nil, err
	}

	buffer := internal.NewReplayBuffer(conf.ConsumerLimit, conf.Tracker, func() (internal.ReplaySource[T], error) {
		up, err := s.Cursor()
		if err != nil {
			return nil, err
		}
		return replaySource[T]{cur: up}, nil
	})

	return &Sequence[T]{source: IterableFunc[T](func() (Cursor[T], error) {
		reader, err := buffer.Register()
		if err != nil {
			return nil, err
		}
		return &memoCursor[T]{buffer: buffer, reader: reader}, nil
	})}, nil
}

func applyOptions(conf *MemoizeConf, opts ...OptionProvider[*MemoizeConf]) error {
	errs := make([]error, 0, len(opts)+1)
	for _, op := range opts {
		errs = append(errs, op.Apply(conf))
	}
	errs = append(errs, conf.Validate())
	return ers.Join(errs...)
}

type replaySource[T any] struct {
	cur Cursor[T]
}

func (s replaySource[T]) Next() (T, bool) { return s.cur.Next().Get() }
func (s replaySource[T]) Err() error      { return s.cur.Err() }

type memoCursor[T any] struct {
	buffer *internal.ReplayBuffer[T]
	reader *internal.ReplayReader[T]
	done   bool
	err    error
}

func (c *memoCursor[T]) Err() error { return c.err }

func (c *memoCursor[T]) Next() Result[T] {
	if c.done {
		return Finished[T]()
	}

	val, ok := c.reader.Next()
	if !ok {
		c.done = true
		c.err = c.buffer.Err()
		return Finished[T]()
	}

	return Ongoing(val)
}

func (c *memoCursor[T]) Return(v T) Result[T] {
	if !c.done {
		c.reader.Release()
		c.done = true
	}
	return FinishedWith(v)
}
