package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWPMZeroElapsed(t *testing.T) {
	for _, tc := range [][2]int{{0, 0}, {10, 0}, {100, 3}, {3, 100}} {
		assert.Equal(t, 0.0, WPM(tc[0], 0, tc[1]))
	}
}

func TestWPMReferenceValues(t *testing.T) {
	assert.InDelta(t, 7.2, WPM(3, 5, 0), 1e-9)
	assert.InDelta(t, 4.8, WPM(3, 5, 1), 1e-9)
	assert.InDelta(t, 60.0, WPM(300, 60, 0), 1e-9)
}

func TestWPMClampsAtZero(t *testing.T) {
	assert.Equal(t, 0.0, WPM(2, 10, 5))
}

func TestWPMMonotonic(t *testing.T) {
	for elapsed := 1; elapsed <= 90; elapsed += 7 {
		for misses := 0; misses <= 20; misses += 3 {
			prev := -1.0
			for typed := 0; typed <= 60; typed++ {
				cur := WPM(typed, elapsed, misses)
				assert.GreaterOrEqual(t, cur, prev)
				assert.GreaterOrEqual(t, cur, 0.0)
				prev = cur
			}
		}
		for typed := 0; typed <= 60; typed += 11 {
			prev := WPM(typed, elapsed, 0)
			for misses := 1; misses <= 70; misses++ {
				cur := WPM(typed, elapsed, misses)
				assert.LessOrEqual(t, cur, prev)
				prev = cur
			}
		}
	}
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.InDelta(t, 0.75, Accuracy(3, 1), 1e-9)
	assert.Equal(t, 1.0, Accuracy(5, 0))
}

func TestCounterClassifiesEachKeystrokeOnce(t *testing.T) {
	var c Counter
	for i := 0; i < 7; i++ {
		c.RecordCorrect()
	}
	for i := 0; i < 4; i++ {
		c.RecordIncorrect()
	}
	snap := c.Snapshot()
	assert.Equal(t, 7, snap.Typed)
	assert.Equal(t, 4, snap.Misses)
}
