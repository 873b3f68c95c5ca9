package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/rtyping/internal/model"
	"github.com/verte-zerg/rtyping/internal/session"
)

type fixedSource []string

func (f fixedSource) Generate(count int) ([]string, error) {
	return f[:count], nil
}

type fakeBackground struct {
	started int
	stopped int
}

func (f *fakeBackground) StartBackground(float64) { f.started++ }
func (f *fakeBackground) StopBackground()         { f.stopped++ }

func newTestModel(t *testing.T, words []string, timeout int, sound bool) (*Model, *[]*session.Engine, *fakeBackground) {
	t.Helper()
	var engines []*session.Engine
	bgm := &fakeBackground{}
	cfg := model.Config{TimeoutSeconds: timeout, WordCount: len(words), ToneFrequency: 800, SoundEnabled: sound}
	start := func(ctx context.Context) (*session.Engine, error) {
		e, err := session.Start(ctx, cfg, fixedSource(words), session.WithManualClock())
		if err == nil {
			engines = append(engines, e)
		}
		return e, err
	}
	return NewModel(start, bgm, nil), &engines, bgm
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelFullDrill(t *testing.T) {
	m, engines, bgm := newTestModel(t, []string{"cat", "dog"}, 60, true)
	assert.Contains(t, m.View(), "Press ENTER to start")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, *engines, 1)
	assert.Equal(t, phaseTyping, m.phase)
	assert.Equal(t, 1, bgm.started)

	m.Update(keyRunes("cax"))
	assert.True(t, m.lastMiss)
	view := m.View()
	assert.Contains(t, view, "Types:")
	assert.Contains(t, view, "Misses:")

	m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Equal(t, 1, (*engines)[0].Snapshot().Misses, "space is not a keystroke")

	(*engines)[0].Timer().Tick()
	m.Update(keyRunes("tdog"))
	assert.Equal(t, phaseResult, m.phase)

	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, 6, res.Typed)
	assert.Equal(t, 1, res.Misses)
	assert.Equal(t, 1, res.ElapsedSeconds)
	assert.Contains(t, m.View(), "Words Per Minute")
	assert.Equal(t, 1, bgm.stopped)

	m.Update(keyRunes("r"))
	require.Len(t, *engines, 2)
	assert.Equal(t, phaseTyping, m.phase)
	_, ok = m.Result()
	assert.False(t, ok)
}

func TestModelEnterKeepsFinishedResult(t *testing.T) {
	m, engines, _ := newTestModel(t, []string{"cat"}, 60, false)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(keyRunes("cat"))
	require.Equal(t, phaseResult, m.phase)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, phaseResult, m.phase)
	assert.Len(t, *engines, 1)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.False(t, m.Aborted())
	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, 3, res.Typed)
}

func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	select {
	case msg := <-done:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("command did not return")
		return nil
	}
}

func TestModelTimeoutWithRealClock(t *testing.T) {
	var engine *session.Engine
	cfg := model.Config{TimeoutSeconds: 1, WordCount: 1, ToneFrequency: 800}
	start := func(ctx context.Context) (*session.Engine, error) {
		e, err := session.Start(ctx, cfg, fixedSource{"cat"}, session.WithTickInterval(5*time.Millisecond))
		engine = e
		return e, err
	}
	m := NewModel(start, nil, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	for m.phase != phaseResult {
		_, cmd = m.Update(runCmd(t, cmd))
	}
	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, 1, res.ElapsedSeconds)

	// The timer goroutine has exited; a pending wait must see the closed channel.
	var msg tickMsg
	for !msg.closed {
		got := runCmd(t, waitForTick(m.gen, engine.Timer().Ticks()))
		require.IsType(t, tickMsg{}, got)
		msg = got.(tickMsg)
	}
	_, cmd = m.Update(msg)
	assert.Nil(t, cmd)
	assert.Equal(t, phaseResult, m.phase)
}

func TestModelTimeoutViaTick(t *testing.T) {
	m, engines, _ := newTestModel(t, []string{"cat"}, 1, false)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	(*engines)[0].Timer().Tick()

	m.Update(tickMsg{gen: m.gen, remaining: 0})
	assert.Equal(t, phaseResult, m.phase)
	res, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, 0, res.Typed)
	assert.Equal(t, 0.0, res.WPM)
}

func TestModelIgnoresStaleTicks(t *testing.T) {
	m, _, _ := newTestModel(t, []string{"cat"}, 60, false)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := m.Update(tickMsg{gen: m.gen - 1, remaining: 3})
	assert.Nil(t, cmd)
	assert.Equal(t, phaseTyping, m.phase)
}

func TestModelAbortProducesNoResult(t *testing.T) {
	m, engines, bgm := newTestModel(t, []string{"cat"}, 60, true)
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(keyRunes("c"))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.True(t, m.Aborted())
	assert.True(t, (*engines)[0].Aborted())
	assert.Equal(t, 1, bgm.stopped)
	_, ok := m.Result()
	assert.False(t, ok)
}

func TestModelStartError(t *testing.T) {
	boom := errors.New("boom")
	m := NewModel(func(context.Context) (*session.Engine, error) { return nil, boom }, nil, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.ErrorIs(t, m.Err(), boom)
}

func TestRenderStatusFormats(t *testing.T) {
	m, _, _ := newTestModel(t, []string{"cat"}, 60, false)
	out := m.renderStatus(model.Snapshot{Typed: 7, Misses: 2, Remaining: 41})
	for _, needle := range []string{"41 sec", "007", "002", "Types:", "Misses:"} {
		assert.True(t, strings.Contains(out, needle), "status missing %q: %s", needle, out)
	}
}

func TestJoinWordsOffsets(t *testing.T) {
	target, offsets := joinWords([]string{"ab", "cde", "f"})
	assert.Equal(t, "ab cde f", string(target))
	assert.Equal(t, []int{0, 3, 7}, offsets)
}
