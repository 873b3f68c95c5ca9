// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/rtyping/internal/logger"
	"github.com/verte-zerg/rtyping/internal/model"
	"github.com/verte-zerg/rtyping/internal/session"
	"github.com/verte-zerg/rtyping/internal/stats"
)

type phase int

const (
	phaseIntro phase = iota
	phaseTyping
	phaseResult
)

// StartFunc creates a running session. The session's timer must stop when
// ctx is cancelled.
type StartFunc func(ctx context.Context) (*session.Engine, error)

// Background controls an optional background loop played during a drill.
type Background interface {
	StartBackground(freq float64)
	StopBackground()
}

type tickMsg struct {
	gen       int
	remaining int
	closed    bool
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	start StartFunc
	bgm   Background
	log   logger.Logger

	keys keyMap
	help help.Model
	bar  progress.Model

	width  int
	height int

	phase    phase
	gen      int
	engine   *session.Engine
	cancel   context.CancelFunc
	target   []rune
	offsets  []int
	lastMiss bool

	result  *model.Result
	aborted bool
	err     error
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle      = currentWordStyle.Underline(true)
	missCursorStyle  = incorrectStyle.Underline(true)
	statusStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	typesStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FAFFF"))
	missesStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD7D7")).Bold(true)
	resultBoxStyle   = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A"))
)

// NewModel constructs a typing TUI model. bgm may be nil.
func NewModel(start StartFunc, bgm Background, log logger.Logger) *Model {
	if log == nil {
		log = logger.Noop()
	}
	return &Model{
		start: start,
		bgm:   bgm,
		log:   log,
		keys:  defaultKeyMap(),
		help:  help.New(),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
}

// Result returns the last finished session result, if any.
func (m *Model) Result() (model.Result, bool) {
	if m.result == nil {
		return model.Result{}, false
	}
	return *m.result, true
}

// Aborted reports whether the user quit during a drill.
func (m *Model) Aborted() bool {
	return m.aborted
}

// Err returns the error that stopped the program, if any.
func (m *Model) Err() error {
	return m.err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, int(float64(msg.Width)*0.70))
		return m, nil
	case tickMsg:
		return m.handleTick(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.phase {
	case phaseIntro:
		switch {
		case key.Matches(msg, m.keys.Abort):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Start):
			return m, m.startSession()
		}
	case phaseTyping:
		if key.Matches(msg, m.keys.Abort) {
			m.abortSession()
			return m, tea.Quit
		}
		if msg.Type == tea.KeyRunes {
			return m, m.handleRunes(msg.Runes)
		}
	case phaseResult:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Restart):
			return m, m.startSession()
		}
	}
	return m, nil
}

func (m *Model) handleRunes(runes []rune) tea.Cmd {
	for _, r := range runes {
		out := m.engine.Submit(r)
		switch out.Kind {
		case session.Rejected:
			return m.finishSession()
		case session.Incorrect:
			m.lastMiss = true
		case session.Correct:
			m.lastMiss = false
		}
		if m.engine.IsFinished() {
			return m.finishSession()
		}
	}
	return nil
}

func (m *Model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.phase != phaseTyping {
		return m, nil
	}
	if m.engine.IsFinished() {
		return m, m.finishSession()
	}
	if msg.closed {
		return m, nil
	}
	return m, waitForTick(m.gen, m.engine.Timer().Ticks())
}

func (m *Model) startSession() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	engine, err := m.start(ctx)
	if err != nil {
		cancel()
		m.err = err
		m.log.Error("failed to start session", "error", err)
		return tea.Quit
	}
	m.gen++
	m.engine = engine
	m.cancel = cancel
	m.phase = phaseTyping
	m.result = nil
	m.lastMiss = false
	m.target, m.offsets = joinWords(engine.Words())
	if m.bgm != nil && engine.Config().SoundEnabled {
		m.bgm.StartBackground(engine.Config().ToneFrequency)
	}
	return waitForTick(m.gen, engine.Timer().Ticks())
}

func (m *Model) finishSession() tea.Cmd {
	res, err := m.engine.Finish()
	m.cancel()
	if m.bgm != nil {
		m.bgm.StopBackground()
	}
	if err != nil {
		m.err = fmt.Errorf("failed to finish session: %w", err)
		m.log.Error("failed to finish session", "error", err)
		return tea.Quit
	}
	m.result = &res
	m.phase = phaseResult
	return nil
}

func (m *Model) abortSession() {
	m.engine.Abort()
	m.cancel()
	if m.bgm != nil {
		m.bgm.StopBackground()
	}
	m.aborted = true
}

func waitForTick(gen int, ticks <-chan int) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ticks
		return tickMsg{gen: gen, remaining: v, closed: !ok}
	}
}

// joinWords lays the words out space-separated and returns each word's start offset.
func joinWords(words []string) ([]rune, []int) {
	offsets := make([]int, len(words))
	var target []rune
	for i, w := range words {
		if i > 0 {
			target = append(target, ' ')
		}
		offsets[i] = len(target)
		target = append(target, []rune(w)...)
	}
	return target, offsets
}

func (m *Model) cursorIndex(snap model.Snapshot) int {
	if snap.WordIndex >= len(m.offsets) {
		return -1
	}
	return m.offsets[snap.WordIndex] + snap.CharIndex
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.phase {
	case phaseIntro:
		content = renderIntro()
	case phaseTyping:
		content = m.renderTyping()
	default:
		content = m.renderResult()
	}
	helpLine := m.help.View(m.keys.forPhase(m.phase))
	if m.width == 0 || m.height < 3 {
		return content + "\n" + helpLine
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footer := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)
	return body + "\n" + footer
}

func renderIntro() string {
	lines := []string{
		titleStyle.Render("r t y p i n g"),
		"",
		"Let's begin typing!",
		"Go for high WPM.",
		"",
		"Press ENTER to start.",
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderTyping() string {
	snap := m.engine.Snapshot()
	styled := buildStyledRunes(m.target, m.cursorIndex(snap), m.lastMiss)
	var text string
	if m.width > 0 {
		contentWidth := max(1, int(float64(m.width)*0.70))
		text = lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth))
	} else {
		text = renderStyledRunes(styled)
	}
	timeout := m.engine.Config().TimeoutSeconds
	bar := m.bar.ViewAs(float64(snap.Remaining) / float64(timeout))
	return lipgloss.JoinVertical(lipgloss.Left, text, "", m.renderStatus(snap), bar)
}

func (m *Model) renderStatus(snap model.Snapshot) string {
	segments := []string{
		fmt.Sprintf("Time: %3d sec", snap.Remaining),
		fmt.Sprintf("Types: %s chars", typesStyle.Render(fmt.Sprintf("%03d", snap.Typed))),
		fmt.Sprintf("Misses: %s chars", missesStyle.Render(fmt.Sprintf("%03d", snap.Misses))),
	}
	return statusStyle.Render(strings.Join(segments, " / "))
}

func (m *Model) renderResult() string {
	if m.result == nil {
		return ""
	}
	lines := append([]string{titleStyle.Render("Result"), ""}, stats.ResultLines(*m.result)...)
	return resultBoxStyle.Render(strings.Join(lines, "\n"))
}
