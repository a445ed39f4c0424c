// Package idgen hands out comment and reply identifiers.
//
// Identifiers read like millisecond clock values but are strictly
// increasing: when two are requested within the same millisecond (or the
// clock steps back) the generator returns last+1 instead of repeating.
package idgen

import (
	"sync"
	"time"
)

type Generator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// New returns a generator reading the given clock. A nil clock means time.Now.
func New(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Next returns the next identifier together with the creation timestamp in
// milliseconds. The timestamp is the raw clock value and may repeat.
func (g *Generator) Next() (id int64, ts int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts = g.now().UnixMilli()
	id = ts
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id, ts
}
