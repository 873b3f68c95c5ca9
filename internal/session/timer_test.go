package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerManualTickExpires(t *testing.T) {
	timer := NewTimer(2, time.Hour)
	assert.Equal(t, 2, timer.Remaining())
	assert.False(t, timer.Expired())

	timer.Tick()
	assert.Equal(t, 1, timer.Remaining())
	assert.False(t, timer.Expired())

	timer.Tick()
	assert.Equal(t, 0, timer.Remaining())
	assert.True(t, timer.Expired())

	for i := 0; i < 3; i++ {
		timer.Tick()
		assert.Equal(t, 0, timer.Remaining())
		assert.True(t, timer.Expired())
	}
}

func TestTimerStopFreezes(t *testing.T) {
	timer := NewTimer(5, time.Hour)
	timer.Tick()
	timer.Stop()
	timer.Tick()
	assert.Equal(t, 4, timer.Remaining())
	assert.False(t, timer.Expired())
	timer.Stop()
}

func TestTimerRunsWhileNobodyReads(t *testing.T) {
	timer := NewTimer(3, 5*time.Millisecond)
	timer.Start(context.Background())
	require.Eventually(t, timer.Expired, time.Second, time.Millisecond)
	assert.Equal(t, 0, timer.Remaining())

	// The tick channel keeps only the latest value and is closed on exit.
	var last int
	for v := range timer.Ticks() {
		last = v
	}
	assert.Equal(t, 0, last)
}

func TestTimerContextCancelClosesTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	timer := NewTimer(60, time.Hour)
	timer.Start(ctx)
	cancel()

	select {
	case _, ok := <-timer.Ticks():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("ticks channel not closed after cancel")
	}
	assert.False(t, timer.Expired())
}
