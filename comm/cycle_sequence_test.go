package comm

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

var seq = NewCycleSequence(1, 0)

func TestCycleSequence_Wrap(t *testing.T) {
	s := NewCycleSequence(MaxSequence-1, 0)
	assert.Equal(t, MaxSequence-1, s.NextVal())
	assert.Equal(t, MaxSequence, s.NextVal())
	// 到达上限后回到 1，跳过 0
	assert.Equal(t, int32(1), s.NextVal())
	assert.Equal(t, int32(2), s.NextVal())
}

func TestCycleSequence_SmallRange(t *testing.T) {
	s := NewCycleSequence(0, 3)
	var got []int32
	for i := 0; i < 7; i++ {
		got = append(got, s.NextVal())
	}
	assert.Equal(t, []int32{1, 2, 3, 1, 2, 3, 1}, got)
}

func TestCycleSequence_Concurrent(t *testing.T) {
	s := NewCycleSequence(1, 0)
	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int32]bool)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				v := s.NextVal()
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 8000)
}

func BenchmarkCycleSequence_NextVal(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seq.NextVal()
	}
}
