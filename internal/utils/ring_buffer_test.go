package utils

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// comparison mirrors what the session history keeps per entry.
type comparison struct {
	a, b  string
	games int
}

func pushed(n int) []comparison {
	out := make([]comparison, n)
	for i := range out {
		out[i] = comparison{a: "Judd Trump", b: fmt.Sprintf("Player %d", i+1), games: i}
	}
	return out
}

func TestNewRingBuffer_RejectsNonPositiveSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		assert.Panics(t, func() { NewRingBuffer[comparison](size) }, "size %d", size)
	}
}

func TestRingBuffer_KeepsNewestOldestFirst(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		pushes int
		want   []comparison
	}{
		{name: "empty", size: 3, pushes: 0, want: []comparison{}},
		{name: "partial", size: 5, pushes: 3, want: pushed(3)},
		{name: "exactly full", size: 3, pushes: 3, want: pushed(3)},
		{name: "evicts oldest", size: 3, pushes: 4, want: pushed(4)[1:]},
		{name: "wraps twice", size: 2, pushes: 6, want: pushed(6)[4:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRingBuffer[comparison](tt.size)
			for _, c := range pushed(tt.pushes) {
				rb.Push(c)
				require.LessOrEqual(t, rb.Len(), rb.Cap())
			}

			assert.Equal(t, tt.size, rb.Cap())
			assert.Equal(t, len(tt.want), rb.Len())
			assert.Equal(t, tt.want, rb.ToSlice())
			for i, want := range tt.want {
				assert.Equal(t, want, rb.At(i))
			}

			last, ok := rb.Last()
			if len(tt.want) == 0 {
				assert.False(t, ok)
				return
			}
			assert.True(t, ok)
			assert.Equal(t, tt.want[len(tt.want)-1], last)
		})
	}
}

func TestRingBuffer_AtOutOfRangePanics(t *testing.T) {
	rb := NewRingBuffer[comparison](3)
	rb.Push(comparison{a: "Mark Selby", b: "Mark Allen"})

	assert.Panics(t, func() { rb.At(-1) })
	assert.Panics(t, func() { rb.At(1) })
}

func TestRingBuffer_ToSliceIsACopy(t *testing.T) {
	rb := NewRingBuffer[comparison](2)
	rb.Push(comparison{a: "Judd Trump", b: "Mark Selby", games: 4})

	s := rb.ToSlice()
	s[0].games = 99
	assert.Equal(t, 4, rb.At(0).games)
}

func TestRingBuffer_ConcurrentPush(t *testing.T) {
	rb := NewRingBuffer[comparison](16)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				rb.Push(comparison{a: fmt.Sprint(g), games: i})
				_ = rb.ToSlice()
				_, _ = rb.Last()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 16, rb.Len())
}
