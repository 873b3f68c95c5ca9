package stats

import "github.com/verte-zerg/rtyping/internal/model"

// Counter accumulates correct and incorrect keystrokes for one session.
// It is not safe for concurrent use.
type Counter struct {
	typed  int
	misses int
}

// RecordCorrect counts one matching keystroke.
func (c *Counter) RecordCorrect() {
	c.typed++
}

// RecordIncorrect counts one miss.
func (c *Counter) RecordIncorrect() {
	c.misses++
}

// Snapshot returns the current counters.
func (c *Counter) Snapshot() model.Stats {
	return model.Stats{Typed: c.typed, Misses: c.misses}
}
