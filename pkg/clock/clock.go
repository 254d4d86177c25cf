package clock

import (
	"sync"
	"time"
)

// Clock yields nanosecond timestamps used for createdAt/submission/issued fields.
type Clock interface {
	Now() int64
}

// Monotonic returns wall-clock nanoseconds, bumped by one whenever the wall
// clock fails to advance so successive readings are strictly increasing.
type Monotonic struct {
	mu   sync.Mutex
	last int64
	wall func() time.Time
}

func NewMonotonic() *Monotonic {
	return &Monotonic{wall: time.Now}
}

func (m *Monotonic) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.wall().UnixNano()
	if now <= m.last {
		now = m.last + 1
	}
	m.last = now
	return now
}

// Fixed is a manually advanced clock for tests.
type Fixed struct {
	mu  sync.Mutex
	now int64
}

func NewFixed(start int64) *Fixed {
	return &Fixed{now: start}
}

// Now returns the current reading and advances by one nanosecond.
func (f *Fixed) Now() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.now
	f.now++
	return v
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.now += int64(d)
	f.mu.Unlock()
}
