package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMonotonicStrictlyIncreasesWhenWallStalls(t *testing.T) {
	frozen := time.Unix(0, 1_000)
	m := &Monotonic{wall: func() time.Time { return frozen }}

	a := m.Now()
	b := m.Now()
	c := m.Now()
	assert.Equal(t, int64(1_000), a)
	assert.Equal(t, a+1, b)
	assert.Equal(t, b+1, c)
}

func TestMonotonicConcurrentReadingsAreUnique(t *testing.T) {
	m := NewMonotonic()
	const n = 200
	seen := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- m.Now()
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[int64]struct{}{}
	for v := range seen {
		unique[v] = struct{}{}
	}
	assert.Len(t, unique, n)
}

func TestFixedAdvance(t *testing.T) {
	f := NewFixed(100)
	assert.Equal(t, int64(100), f.Now())
	f.Advance(time.Second)
	assert.Equal(t, int64(101)+int64(time.Second), f.Now())
}
