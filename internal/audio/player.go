// Package audio plays keystroke feedback tones and background music.
// Playback is fire-and-forget: events that arrive while the queue is full are
// dropped rather than delaying the session.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"

	"github.com/verte-zerg/rtyping/internal/logger"
	"github.com/verte-zerg/rtyping/internal/session"
)

const queueSize = 32

// Sink plays PCM streams in the package's sample format.
type Sink interface {
	Play(r io.Reader) Voice
}

// Voice is one stream being played.
type Voice interface {
	IsPlaying() bool
	Close() error
}

// Player consumes session events and plays tones for them.
type Player struct {
	sink Sink
	log  logger.Logger

	events chan session.Event

	mu     sync.Mutex
	voices []Voice
	bgm    Voice
}

// NewPlayer returns a Player that writes to sink.
func NewPlayer(sink Sink, log logger.Logger) *Player {
	if log == nil {
		log = logger.Noop()
	}
	return &Player{
		sink:   sink,
		log:    log,
		events: make(chan session.Event, queueSize),
	}
}

// Notify implements session.Listener. It never blocks.
func (p *Player) Notify(e session.Event) {
	select {
	case p.events <- e:
	default:
		p.log.Debug("audio queue full, dropping event", "kind", e.Kind.String())
	}
}

// Run plays queued events until ctx is done.
func (p *Player) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.Close()
			return
		case e := <-p.events:
			p.play(e)
		}
	}
}

func (p *Player) play(e session.Event) {
	tones := tonesFor(e)
	if len(tones) == 0 {
		return
	}
	v := p.sink.Play(bytes.NewReader(synth(tones)))

	p.mu.Lock()
	defer p.mu.Unlock()
	// Voices must stay referenced until they finish.
	kept := p.voices[:0]
	for _, old := range p.voices {
		if old.IsPlaying() {
			kept = append(kept, old)
			continue
		}
		if err := old.Close(); err != nil {
			p.log.Debug("failed to close voice", "error", err)
		}
	}
	p.voices = append(kept, v)
}

// StartBackground starts the background loop; it replaces any running loop.
// The loop runs until StopBackground or Close; session events never stop it.
func (p *Player) StartBackground(freq float64) {
	p.StopBackground()
	v := p.sink.Play(&loopReader{data: backgroundLoop(freq)})
	p.mu.Lock()
	p.bgm = v
	p.mu.Unlock()
}

// StopBackground stops the background loop, if any.
func (p *Player) StopBackground() {
	p.mu.Lock()
	bgm := p.bgm
	p.bgm = nil
	p.mu.Unlock()
	if bgm == nil {
		return
	}
	if err := bgm.Close(); err != nil {
		p.log.Debug("failed to stop background loop", "error", err)
	}
}

// Close stops all playback.
func (p *Player) Close() {
	p.StopBackground()
	p.mu.Lock()
	voices := p.voices
	p.voices = nil
	p.mu.Unlock()
	for _, v := range voices {
		_ = v.Close()
	}
}

type otoSink struct {
	ctx *oto.Context
}

// Play implements Sink.
func (s *otoSink) Play(r io.Reader) Voice {
	pl := s.ctx.NewPlayer(r)
	pl.Play()
	return pl
}

var (
	deviceOnce sync.Once
	device     *otoSink
	deviceErr  error
)

// OpenDevice opens the default audio output. The device is opened once per
// process; later calls return the same sink.
func OpenDevice() (Sink, error) {
	deviceOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: channelCount,
			Format:       oto.FormatSignedInt16LE,
		}
		ctx, ready, err := oto.NewContext(op)
		if err != nil {
			deviceErr = fmt.Errorf("failed to open audio device: %w", err)
			return
		}
		<-ready
		device = &otoSink{ctx: ctx}
	})
	if deviceErr != nil {
		return nil, deviceErr
	}
	return device, nil
}
