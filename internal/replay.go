package internal

import (
	"sync"

	"github.com/tychoish/lazy/ers"
)

// ReplayTracker observes the lifecycle of a ReplayBuffer. All methods
// are called with the buffer's lock held and must not call back into
// the buffer.
type ReplayTracker interface {
	// ConsumerAdmitted is called after a reader registers; live
	// is the number of registered readers including the new one.
	ConsumerAdmitted(live int)
	// ConsumerRejected is called when a registration would exceed
	// the consumer limit.
	ConsumerRejected(limit int)
	// ConsumerReleased is called when a reader deregisters,
	// either by reaching the end of the source or, when early is
	// true, by terminating before the end.
	ConsumerReleased(live int, early bool)
	// EntryBuffered is called when a value is pulled from the
	// source and stored at index.
	EntryBuffered(index int, retained int)
	// EntryEvicted is called when the last reference to the entry
	// at index is dropped.
	EntryEvicted(index int, retained int)
}

type noopTracker struct{}

func (noopTracker) ConsumerAdmitted(int)       {}
func (noopTracker) ConsumerRejected(int)       {}
func (noopTracker) ConsumerReleased(int, bool) {}
func (noopTracker) EntryBuffered(int, int)     {}
func (noopTracker) EntryEvicted(int, int)      {}

// ReplaySource is the single-pass input of a ReplayBuffer.
type ReplaySource[T any] interface {
	// Next produces the next value, or false when the source is
	// exhausted.
	Next() (T, bool)
	// Err reports a failure that ended the source.
	Err() error
}

type replayEntry[T any] struct {
	value T
	refs  int
}

// ReplayBuffer shares one evaluation of a ReplaySource between any
// number of ReplayReaders. Every index is pulled from the source at
// most once, by the first reader that needs it, and cached until no
// reader can still read it.
//
// With a positive limit the buffer has limit reader slots. Each
// entry holds one reference for every slot that has not yet read
// (or abandoned) it: slots that are still unused count, so that a
// reader arriving later replays from index 0. A reader that reaches
// the end of the source spends its slot for good. A released reader
// drops its references and hands its slot back; a later reader that
// takes it re-references every retained entry. Once every slot has
// been spent, later registrations fail.
//
// Without a limit, entries hold one reference for every registered
// reader that has not passed them, and are never evicted: another
// reader may always arrive and replay the source from the start.
type ReplayBuffer[T any] struct {
	mtx     sync.Mutex
	open    func() (ReplaySource[T], error)
	source  ReplaySource[T]
	limit   int
	tracker ReplayTracker

	entries   map[int]*replayEntry[T]
	low       int
	next      int
	exhausted bool
	err       error

	live  int
	free  int
	spent int
}

// NewReplayBuffer constructs a buffer. The open function is called,
// at most once, when a reader first needs a value. Limits less than 1
// produce an unbounded buffer; a nil tracker is ignored.
func NewReplayBuffer[T any](limit int, tracker ReplayTracker, open func() (ReplaySource[T], error)) *ReplayBuffer[T] {
	if tracker == nil {
		tracker = noopTracker{}
	}

	return &ReplayBuffer[T]{
		open:    open,
		limit:   max(0, limit),
		tracker: tracker,
		entries: map[int]*replayEntry[T]{},
	}
}

// Register admits a new reader, positioned at the oldest retained
// index. When the buffer has a limit, and every slot is held by a
// registered reader or was spent by a reader that reached the end of
// the source, Register returns an ers.ErrResourceExhausted error.
func (b *ReplayBuffer[T]) Register() (*ReplayReader[T], error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	bounded := b.limit > 0

	if bounded && b.live+b.spent >= b.limit {
		b.tracker.ConsumerRejected(b.limit)
		return nil, ers.Wrap(ers.ErrResourceExhausted, "this has been reached the consumer limit")
	}

	// unused slots already reference every retained entry
	if !bounded || b.live+b.spent+b.free >= b.limit {
		if bounded {
			b.free--
		}
		for idx := b.low; idx < b.next; idx++ {
			b.entries[idx].refs++
		}
	}

	b.live++
	b.tracker.ConsumerAdmitted(b.live)

	return &ReplayReader[T]{buffer: b, pos: b.low}, nil
}

// Consumers returns the number of registered readers.
func (b *ReplayBuffer[T]) Consumers() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.live
}

// Retained returns the number of buffered entries.
func (b *ReplayBuffer[T]) Retained() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return len(b.entries)
}

// References returns the reference count of every retained entry, in
// index order.
func (b *ReplayBuffer[T]) References() []int {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	out := make([]int, 0, len(b.entries))
	for idx := b.low; idx < b.next; idx++ {
		if e, ok := b.entries[idx]; ok {
			out = append(out, e.refs)
		}
	}
	return out
}

// Err returns the error, if any, that ended the source.
func (b *ReplayBuffer[T]) Err() error {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.err
}

// fill pulls one value from the source into the buffer; it returns
// false once the source is exhausted or failed.
func (b *ReplayBuffer[T]) fill() bool {
	if b.exhausted {
		return false
	}

	if b.source == nil {
		src, err := b.open()
		b.open = nil
		if err != nil {
			b.err = err
			b.exhausted = true
			return false
		}
		b.source = src
	}

	val, ok := b.source.Next()
	if !ok {
		b.err = ers.Join(b.err, b.source.Err())
		b.source = nil
		b.exhausted = true
		return false
	}

	refs := b.live
	if b.limit > 0 {
		refs = b.limit - b.spent - b.free
	}

	b.entries[b.next] = &replayEntry[T]{value: val, refs: refs}
	b.next++
	b.tracker.EntryBuffered(b.next-1, len(b.entries))

	return true
}

func (b *ReplayBuffer[T]) deref(idx int) {
	e, ok := b.entries[idx]
	if !ok {
		return
	}

	e.refs--
	if b.limit == 0 || e.refs > 0 {
		return
	}

	delete(b.entries, idx)
	for b.low < b.next {
		if _, ok := b.entries[b.low]; ok {
			break
		}
		b.low++
	}
	b.tracker.EntryEvicted(idx, len(b.entries))
}

func (b *ReplayBuffer[T]) release(r *ReplayReader[T], early bool) {
	if r.released {
		return
	}
	r.released = true

	if early {
		for idx := max(r.pos, b.low); idx < b.next; idx++ {
			b.deref(idx)
		}
	}

	b.live--
	switch {
	case b.limit == 0:
	case early:
		b.free++
	default:
		b.spent++
	}
	b.tracker.ConsumerReleased(b.live, early)

	if b.limit > 0 && b.spent == b.limit {
		b.shutdown()
	}
}

// shutdown drops everything once no reader can ever register again.
func (b *ReplayBuffer[T]) shutdown() {
	b.open = nil
	clear(b.entries)
	b.low = b.next
}

// ReplayReader is one registered consumer of a ReplayBuffer. Readers
// are not safe for concurrent use by multiple goroutines, but readers
// of the same buffer may be used from different goroutines.
type ReplayReader[T any] struct {
	buffer   *ReplayBuffer[T]
	pos      int
	released bool
}

// Next returns the value at the reader's position and advances
// it. When the source is exhausted the reader releases itself and
// Next returns false.
func (r *ReplayReader[T]) Next() (out T, _ bool) {
	b := r.buffer
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if r.released {
		return out, false
	}

	if r.pos == b.next && !b.fill() {
		b.release(r, false)
		return out, false
	}

	e, ok := b.entries[r.pos]
	if !ok {
		b.err = ers.Join(b.err, ers.Wrapf(ers.ErrInvariantViolation, "replay entry %d missing", r.pos))
		b.release(r, true)
		return out, false
	}

	out = e.value
	b.deref(r.pos)
	r.pos++

	return out, true
}

// Release deregisters the reader before it reaches the end of the
// source, dropping its references to entries it has not read, and
// frees its slot for a later reader. It is safe to call more than
// once, and after the reader finished.
func (r *ReplayReader[T]) Release() {
	r.buffer.mtx.Lock()
	defer r.buffer.mtx.Unlock()
	r.buffer.release(r, true)
}

// Position reports the index of the next value the reader will
// return.
func (r *ReplayReader[T]) Position() int {
	r.buffer.mtx.Lock()
	defer r.buffer.mtx.Unlock()
	return r.pos
}
