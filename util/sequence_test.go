package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequence(t *testing.T) {
	seq := NewSequence(0)
	assert.Equal(t, int32(0), seq.Next())
	assert.Equal(t, int32(1), seq.Next())
	assert.Equal(t, int32(2), seq.Next())

	seq.ResetTo(100)
	assert.Equal(t, int32(100), seq.Next())
}

func TestSequenceConcurrent(t *testing.T) {
	seq := NewSequence(0)
	count := 64
	results := make(chan int32, count)
	wg := sync.WaitGroup{}
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- seq.Next()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int32]bool)
	for v := range results {
		assert.False(t, seen[v], "duplicate id [%d]", v)
		seen[v] = true
	}
	assert.Equal(t, count, len(seen))
}
