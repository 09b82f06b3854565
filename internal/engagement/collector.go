package engagement

import (
	"sort"
	"sync"
	"time"
)

const (
	DefaultMinRatio  = 0.5
	DefaultSkipAfter = 2 * time.Second
)

// Visibility is one entry of the currently rendered window.
type Visibility struct {
	Target Target
	Ratio  float64
}

type episode struct {
	target     Target
	start      time.Time
	classified bool
}

// Collector turns enter/leave/click/mark notifications into engagement
// events. An episode starts when a video becomes at least MinRatio visible
// and ends when it leaves; a click or mark classifies the episode, after
// which it produces no skip.
type Collector struct {
	mu        sync.Mutex
	episodes  map[string]*episode
	minRatio  float64
	skipAfter time.Duration
}

func NewCollector() *Collector {
	return &Collector{
		episodes:  make(map[string]*episode),
		minRatio:  DefaultMinRatio,
		skipAfter: DefaultSkipAfter,
	}
}

// Open reports whether id has an open episode.
func (c *Collector) Open(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.episodes[id]
	return ok
}

func (c *Collector) Enter(t Target, ratio float64, now time.Time) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev, ok := c.enterLocked(t, ratio, now); ok {
		return []Event{ev}
	}
	return nil
}

func (c *Collector) enterLocked(t Target, ratio float64, now time.Time) (Event, bool) {
	if t.VideoID == "" || ratio < c.minRatio {
		return Event{}, false
	}
	if _, open := c.episodes[t.VideoID]; open {
		return Event{}, false
	}
	c.episodes[t.VideoID] = &episode{target: t, start: now}
	return newEvent(KindView, t, now), true
}

func (c *Collector) Leave(id string, now time.Time) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev, ok := c.leaveLocked(id, now); ok {
		return []Event{ev}
	}
	return nil
}

func (c *Collector) leaveLocked(id string, now time.Time) (Event, bool) {
	ep, ok := c.episodes[id]
	if !ok {
		return Event{}, false
	}
	delete(c.episodes, id)
	if ep.classified || now.Sub(ep.start) < c.skipAfter {
		return Event{}, false
	}
	return newEvent(KindSkip, ep.target, now), true
}

// Click records a click-through. It is reported even without an open
// episode; within one episode only the first click or mark is reported.
func (c *Collector) Click(t Target, now time.Time) []Event {
	return c.classify(KindClick, t, now)
}

// Mark records an explicit mark-as-watched.
func (c *Collector) Mark(t Target, now time.Time) []Event {
	return c.classify(KindMark, t, now)
}

func (c *Collector) classify(kind Kind, t Target, now time.Time) []Event {
	if t.VideoID == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if ep, ok := c.episodes[t.VideoID]; ok {
		if ep.classified {
			return nil
		}
		ep.classified = true
	}
	return []Event{newEvent(kind, t, now)}
}

// Reattach reconciles observation with a freshly rendered window. Videos no
// longer present are left; already open episodes are kept as they are.
func (c *Collector) Reattach(visible []Visibility, now time.Time) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	present := make(map[string]float64, len(visible))
	for _, v := range visible {
		if v.Target.VideoID == "" {
			continue
		}
		if v.Ratio > present[v.Target.VideoID] {
			present[v.Target.VideoID] = v.Ratio
		}
	}

	var out []Event
	for _, id := range c.openIDsLocked() {
		if ratio, ok := present[id]; ok && ratio >= c.minRatio {
			continue
		}
		if ev, ok := c.leaveLocked(id, now); ok {
			out = append(out, ev)
		}
	}
	for _, v := range visible {
		if ev, ok := c.enterLocked(v.Target, v.Ratio, now); ok {
			out = append(out, ev)
		}
	}
	return out
}

// Close ends every open episode, as when the session is torn down.
func (c *Collector) Close(now time.Time) []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Event
	for _, id := range c.openIDsLocked() {
		if ev, ok := c.leaveLocked(id, now); ok {
			out = append(out, ev)
		}
	}
	return out
}

func (c *Collector) openIDsLocked() []string {
	ids := make([]string, 0, len(c.episodes))
	for id := range c.episodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
