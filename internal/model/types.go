// Package model defines shared data structures.
package model

// Config defines drill settings. It is not mutated once a session starts.
type Config struct {
	TimeoutSeconds int
	WordCount      int
	ToneFrequency  float64
	SoundEnabled   bool

	WordListPath string
	CapsPct      float64
	PunctPct     float64
	PunctSet     string
}

// Validate reports the first invalid setting wrapped in ErrConfig.
func (c Config) Validate() error {
	switch {
	case c.WordCount <= 0:
		return configErrorf("word count must be > 0, got %d", c.WordCount)
	case c.TimeoutSeconds <= 0:
		return configErrorf("timeout must be > 0, got %d", c.TimeoutSeconds)
	case c.ToneFrequency <= 0:
		return configErrorf("tone frequency must be > 0, got %g", c.ToneFrequency)
	case c.CapsPct < 0 || c.CapsPct > 1:
		return configErrorf("caps must be between 0 and 1, got %g", c.CapsPct)
	case c.PunctPct < 0 || c.PunctPct > 1:
		return configErrorf("punct must be between 0 and 1, got %g", c.PunctPct)
	case c.PunctPct > 0 && c.PunctSet == "":
		return configErrorf("punct-set must not be empty when punct > 0")
	}
	return nil
}

// Stats holds the keystroke counters of a session.
type Stats struct {
	Typed  int
	Misses int
}

// Snapshot is a read-only view of a running session for live display.
type Snapshot struct {
	Typed     int
	Misses    int
	Remaining int
	WordIndex int
	CharIndex int
}

// Result captures a completed typing session.
type Result struct {
	ElapsedSeconds int
	Typed          int
	Misses         int
	WPM            float64
	Accuracy       float64
}
