// Package stats contains keystroke counters, speed metrics and reporting.
package stats

// charsPerWord is the standard typing-test word length.
const charsPerWord = 5.0

// WPM returns net words per minute. Misses are subtracted from typed chars and
// the net is clamped at zero. A zero or negative duration yields 0.
func WPM(typed, elapsedSeconds, misses int) float64 {
	if elapsedSeconds <= 0 {
		return 0
	}
	net := typed - misses
	if net < 0 {
		net = 0
	}
	minutes := float64(elapsedSeconds) / 60.0
	return float64(net) / charsPerWord / minutes
}

// Accuracy returns the share of keystrokes that matched, in [0, 1].
func Accuracy(typed, misses int) float64 {
	den := typed + misses
	if den <= 0 {
		return 0
	}
	return float64(typed) / float64(den)
}
