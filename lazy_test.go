package lazy

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingIterable records how often its cursors were acquired and
// pulled.
type countingIterable[T any] struct {
	vals      []T
	acquired  int
	pulls     int
	returned  int
	afterDone int
}

func (it *countingIterable[T]) Cursor() (Cursor[T], error) {
	it.acquired++
	return &countingCursor[T]{parent: it}, nil
}

type countingCursor[T any] struct {
	parent *countingIterable[T]
	idx    int
	done   bool
}

func (c *countingCursor[T]) Err() error { return nil }

func (c *countingCursor[T]) Next() Result[T] {
	c.parent.pulls++
	if c.done {
		c.parent.afterDone++
		return Finished[T]()
	}
	if c.idx >= len(c.parent.vals) {
		c.done = true
		return Finished[T]()
	}
	c.idx++
	return Ongoing(c.parent.vals[c.idx-1])
}

func (c *countingCursor[T]) Return(v T) Result[T] {
	c.parent.returned++
	c.done = true
	return FinishedWith(v)
}

type errIterable[T any] struct{ err error }

func (it errIterable[T]) Cursor() (Cursor[T], error) { return nil, it.err }

func mustCursor[T any](t *testing.T, seq *Sequence[T]) Cursor[T] {
	t.Helper()
	cur, err := seq.Cursor()
	require.NoError(t, err)
	require.NotNil(t, cur)
	return cur
}

func mustCollect[T any](t *testing.T, seq *Sequence[T]) []T {
	t.Helper()
	out, err := seq.Collect()
	require.NoError(t, err)
	return out
}

// assertTerminated checks that the cursor reports two finished
// results without payloads.
func assertTerminated[T any](t *testing.T, cur Cursor[T]) {
	t.Helper()
	for i := 0; i < 2; i++ {
		res := cur.Next()
		assert.True(t, res.Done())
		_, ok := res.Payload()
		assert.False(t, ok)
	}
}

func TestResult(t *testing.T) {
	t.Run("Ongoing", func(t *testing.T) {
		res := Ongoing(42)
		assert.False(t, res.Done())
		assert.Equal(t, 42, res.Value())
		val, ok := res.Get()
		assert.True(t, ok)
		assert.Equal(t, 42, val)
		_, ok = res.Payload()
		assert.False(t, ok)
	})
	t.Run("Finished", func(t *testing.T) {
		res := Finished[string]()
		assert.True(t, res.Done())
		assert.Zero(t, res.Value())
		_, ok := res.Get()
		assert.False(t, ok)
		_, ok = res.Payload()
		assert.False(t, ok)
	})
	t.Run("FinishedWith", func(t *testing.T) {
		res := FinishedWith("hello")
		assert.True(t, res.Done())
		val, ok := res.Payload()
		assert.True(t, ok)
		assert.Equal(t, "hello", val)
		_, ok = res.Get()
		assert.False(t, ok)
	})
}

func TestSequence(t *testing.T) {
	t.Run("CreateIsLazy", func(t *testing.T) {
		src := &countingIterable[int]{vals: []int{1, 2, 3}}
		seq := Create[int](src)
		assert.Zero(t, src.acquired)
		assert.Zero(t, src.pulls)

		_ = mustCursor(t, seq)
		assert.Equal(t, 1, src.acquired)
		assert.Zero(t, src.pulls)
	})
	t.Run("CreateNil", func(t *testing.T) {
		seq := Create[int](nil)
		assertTerminated(t, mustCursor(t, seq))
	})
	t.Run("ForEach", func(t *testing.T) {
		src := []int{1, 2, 3}
		var out []int
		require.NoError(t, Slice(src).ForEach(func(v int) { out = append(out, v) }))
		assert.Equal(t, src, out)
	})
	t.Run("ForEachAcquisitionError", func(t *testing.T) {
		expected := errors.New("no cursor")
		err := Create[int](errIterable[int]{err: expected}).ForEach(func(int) { t.Fatal("should not be called") })
		assert.ErrorIs(t, err, expected)
	})
	t.Run("Restartable", func(t *testing.T) {
		type counter struct{ n int }
		src := []*counter{{0}, {1}, {2}}
		seq := Slice(src)

		var first, second []int
		require.NoError(t, seq.ForEach(func(c *counter) { c.n++; first = append(first, c.n) }))
		require.NoError(t, seq.ForEach(func(c *counter) { c.n++; second = append(second, c.n) }))

		assert.Equal(t, []int{1, 2, 3}, first)
		assert.Equal(t, []int{2, 3, 4}, second)
	})
	t.Run("IndependentCursors", func(t *testing.T) {
		seq := Variadic(1, 2, 3)
		one := mustCursor(t, seq)
		two := mustCursor(t, seq)

		assert.Equal(t, 1, one.Next().Value())
		assert.Equal(t, 2, one.Next().Value())
		assert.Equal(t, 1, two.Next().Value())
		assert.Equal(t, 3, one.Next().Value())
		assertTerminated(t, one)
		assert.Equal(t, 2, two.Next().Value())
	})
	t.Run("SliceReturn", func(t *testing.T) {
		cur := mustCursor(t, Variadic(1, 2, 3))
		assert.Equal(t, 1, cur.Next().Value())
		res := cur.Return(100)
		assert.True(t, res.Done())
		val, ok := res.Payload()
		assert.True(t, ok)
		assert.Equal(t, 100, val)
		assertTerminated(t, cur)

		res = cur.Return(200)
		assert.Equal(t, 200, res.Value())
	})
	t.Run("Generate", func(t *testing.T) {
		count := 0
		seq := Generate(func() (int, bool) {
			count++
			return count, count <= 3
		})
		assert.Zero(t, count)

		one := mustCursor(t, seq)
		two := mustCursor(t, seq)
		assert.Zero(t, count)

		assert.Equal(t, 1, one.Next().Value())
		assert.Equal(t, 2, two.Next().Value())
		assert.Equal(t, []int{3}, mustCollect(t, seq))
		assertTerminated(t, one)
		assertTerminated(t, two)
		assert.Equal(t, 4, count)
		assert.Empty(t, mustCollect(t, seq))
	})
	t.Run("FromSeq", func(t *testing.T) {
		seq := FromSeq(slices.Values([]string{"a", "b", "c"}))
		assert.Equal(t, []string{"a", "b", "c"}, mustCollect(t, seq))
		assert.Equal(t, []string{"a", "b", "c"}, mustCollect(t, seq))
	})
	t.Run("FromSeqIsLazy", func(t *testing.T) {
		called := 0
		seq := FromSeq(func(yield func(int) bool) {
			called++
			yield(1)
		})
		cur := mustCursor(t, seq)
		assert.Zero(t, called)
		assert.Equal(t, 1, cur.Next().Value())
		assert.Equal(t, 1, called)
		assertTerminated(t, cur)
	})
	t.Run("FromSeqReturnStops", func(t *testing.T) {
		stopped := false
		seq := FromSeq(func(yield func(int) bool) {
			defer func() { stopped = true }()
			for i := 0; ; i++ {
				if !yield(i) {
					return
				}
			}
		})
		cur := mustCursor(t, seq)
		assert.Equal(t, 0, cur.Next().Value())
		assert.Equal(t, 1, cur.Next().Value())
		cur.Return(-1)
		assert.True(t, stopped)
		assertTerminated(t, cur)
	})
	t.Run("Iterator", func(t *testing.T) {
		var out []int
		for v, err := range Variadic(1, 2, 3).Iterator() {
			require.NoError(t, err)
			out = append(out, v)
		}
		assert.Equal(t, []int{1, 2, 3}, out)
	})
	t.Run("IteratorBreakReturns", func(t *testing.T) {
		src := &countingIterable[int]{vals: []int{1, 2, 3}}
		for v, err := range Create[int](src).Iterator() {
			require.NoError(t, err)
			if v == 2 {
				break
			}
		}
		assert.Equal(t, 1, src.returned)
		assert.Equal(t, 2, src.pulls)
	})
	t.Run("IteratorError", func(t *testing.T) {
		expected := errors.New("no cursor")
		count := 0
		for _, err := range Create[int](errIterable[int]{err: expected}).Iterator() {
			count++
			assert.ErrorIs(t, err, expected)
		}
		assert.Equal(t, 1, count)
	})
}
