package session

import (
	"sync"
	"time"
)

const DefaultDebounce = 300 * time.Millisecond

// Debouncer keeps the latest search text. Each Push returns a token; the
// caller schedules a timer carrying it, and only the newest token fires.
type Debouncer struct {
	mu      sync.Mutex
	token   uint64
	pending string
	armed   bool
}

func (d *Debouncer) Push(text string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.token++
	d.pending = text
	d.armed = true
	return d.token
}

// Fire returns the pending text when token is still the newest one.
func (d *Debouncer) Fire(token uint64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.armed || token != d.token {
		return "", false
	}
	d.armed = false
	return d.pending, true
}

// Flush applies the pending text now and cancels the scheduled fire.
func (d *Debouncer) Flush() (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.armed {
		return "", false
	}
	d.armed = false
	d.token++
	return d.pending, true
}
