// Package session implements the interactive typing session engine: the word
// cursor, keystroke matching, live counters and the countdown.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/rtyping/internal/logger"
	"github.com/verte-zerg/rtyping/internal/model"
	"github.com/verte-zerg/rtyping/internal/stats"
)

// WordSource produces the target words for a session.
type WordSource interface {
	Generate(count int) ([]string, error)
}

// Kind classifies a keystroke.
type Kind int

const (
	// Rejected means the session was already over; nothing changed.
	Rejected Kind = iota
	// Correct means the key matched and the cursor advanced.
	Correct
	// Incorrect means the key did not match; the same character must be retried.
	Incorrect
)

func (k Kind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "rejected"
	}
}

// Outcome is the result of one keystroke.
type Outcome struct {
	Kind         Kind
	WordComplete bool
}

// Cursor is the position in the word list.
type Cursor struct {
	Word int
	Char int
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	listener     Listener
	logger       logger.Logger
	tickInterval time.Duration
	manualClock  bool
}

// WithListener registers a listener for keystroke and end events.
func WithListener(l Listener) Option {
	return func(o *options) {
		if l != nil {
			o.listener = l
		}
	}
}

// WithLogger sets the logger used for lifecycle messages.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithTickInterval changes the real-time length of one countdown second.
func WithTickInterval(d time.Duration) Option {
	return func(o *options) {
		o.tickInterval = d
	}
}

// WithManualClock leaves the timer unstarted; callers drive it with Timer().Tick.
func WithManualClock() Option {
	return func(o *options) {
		o.manualClock = true
	}
}

// Engine runs one typing session. Submit, Finish, Abort and Snapshot must be
// called from a single goroutine; only the timer runs concurrently.
type Engine struct {
	id       string
	cfg      model.Config
	words    [][]rune
	cursor   Cursor
	counter  stats.Counter
	timer    *Timer
	listener Listener
	log      logger.Logger

	aborted  bool
	finished bool
}

// Start builds the word list and starts the countdown. It returns an error
// wrapping model.ErrConfig when the configuration or the word source is invalid.
func Start(ctx context.Context, cfg model.Config, source WordSource, opts ...Option) (*Engine, error) {
	o := options{
		listener:     noopListener{},
		logger:       logger.Noop(),
		tickInterval: DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: word source is nil", model.ErrConfig)
	}
	list, err := source.Generate(cfg.WordCount)
	if err != nil {
		return nil, fmt.Errorf("failed to generate words: %w", err)
	}
	if len(list) != cfg.WordCount {
		return nil, fmt.Errorf("%w: word source returned %d words, want %d", model.ErrConfig, len(list), cfg.WordCount)
	}
	words := make([][]rune, len(list))
	for i, w := range list {
		if w == "" {
			return nil, fmt.Errorf("%w: word source returned an empty word at %d", model.ErrConfig, i)
		}
		words[i] = []rune(w)
	}

	id := uuid.NewString()
	e := &Engine{
		id:       id,
		cfg:      cfg,
		words:    words,
		timer:    NewTimer(cfg.TimeoutSeconds, o.tickInterval),
		listener: o.listener,
		log:      o.logger.With("session_id", id),
	}
	if !o.manualClock {
		e.timer.Start(ctx)
	}
	e.log.Info("session started",
		"timeout", cfg.TimeoutSeconds,
		"words", cfg.WordCount)
	return e, nil
}

// Submit classifies one keystroke against the character under the cursor.
func (e *Engine) Submit(r rune) Outcome {
	if e.aborted || e.finished || e.IsFinished() {
		return Outcome{Kind: Rejected}
	}
	word := e.words[e.cursor.Word]
	if word[e.cursor.Char] != r {
		e.counter.RecordIncorrect()
		e.listener.Notify(Event{Kind: EventIncorrect, Frequency: e.cfg.ToneFrequency})
		return Outcome{Kind: Incorrect}
	}

	e.counter.RecordCorrect()
	e.cursor.Char++
	out := Outcome{Kind: Correct}
	if e.cursor.Char == len(word) {
		e.cursor.Word++
		e.cursor.Char = 0
		out.WordComplete = true
	}
	e.listener.Notify(Event{Kind: EventCorrect, Frequency: e.cfg.ToneFrequency})
	return out
}

// IsFinished reports whether every word was typed or the countdown expired.
func (e *Engine) IsFinished() bool {
	return e.cursor.Word == len(e.words) || e.timer.Expired()
}

// Finish produces the session result. It may be called once, only after
// IsFinished is true, and never after Abort. Calling it early aborts the session.
func (e *Engine) Finish() (model.Result, error) {
	switch {
	case e.aborted:
		return model.Result{}, fmt.Errorf("%w: session was aborted", model.ErrInvalidState)
	case e.finished:
		return model.Result{}, fmt.Errorf("%w: session already finished", model.ErrInvalidState)
	case !e.IsFinished():
		e.Abort()
		return model.Result{}, fmt.Errorf("%w: session is still running", model.ErrInvalidState)
	}
	e.finished = true
	e.timer.Stop()

	elapsed := e.cfg.TimeoutSeconds - e.timer.Remaining()
	counts := e.counter.Snapshot()
	res := model.Result{
		ElapsedSeconds: elapsed,
		Typed:          counts.Typed,
		Misses:         counts.Misses,
		WPM:            stats.WPM(counts.Typed, elapsed, counts.Misses),
		Accuracy:       stats.Accuracy(counts.Typed, counts.Misses),
	}
	e.listener.Notify(Event{Kind: EventSessionEnd, Frequency: e.cfg.ToneFrequency})
	e.log.Info("session finished",
		"elapsed", res.ElapsedSeconds,
		"typed", res.Typed,
		"misses", res.Misses,
		"wpm", res.WPM,
		"timed_out", e.timer.Expired())
	return res, nil
}

// Abort cancels the session. No result is produced afterwards.
func (e *Engine) Abort() {
	if e.aborted || e.finished {
		return
	}
	e.aborted = true
	e.timer.Stop()
	e.log.Info("session aborted", "remaining", e.timer.Remaining())
}

// Aborted reports whether Abort was called.
func (e *Engine) Aborted() bool {
	return e.aborted
}

// Snapshot returns the live counters and cursor.
func (e *Engine) Snapshot() model.Snapshot {
	counts := e.counter.Snapshot()
	return model.Snapshot{
		Typed:     counts.Typed,
		Misses:    counts.Misses,
		Remaining: e.timer.Remaining(),
		WordIndex: e.cursor.Word,
		CharIndex: e.cursor.Char,
	}
}

// Cursor returns the current position.
func (e *Engine) Cursor() Cursor {
	return e.cursor
}

// Words returns a copy of the target words.
func (e *Engine) Words() []string {
	out := make([]string, len(e.words))
	for i, w := range e.words {
		out[i] = string(w)
	}
	return out
}

// Config returns the session configuration.
func (e *Engine) Config() model.Config {
	return e.cfg
}

// ID returns the session identifier used in logs.
func (e *Engine) ID() string {
	return e.id
}

// Timer exposes the countdown for tick notifications and manual driving.
func (e *Engine) Timer() *Timer {
	return e.timer
}
