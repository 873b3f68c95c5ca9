package audio

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/verte-zerg/rtyping/internal/session"
)

const (
	sampleRate   = 44100
	channelCount = 2
	bytesPerPCM  = 2
)

type tone struct {
	freq     float64
	duration time.Duration
	volume   float64
}

// tonesFor maps a session event to the tones that announce it.
func tonesFor(e session.Event) []tone {
	freq := e.Frequency
	switch e.Kind {
	case session.EventCorrect:
		return []tone{{freq: freq, duration: 40 * time.Millisecond, volume: 0.25}}
	case session.EventIncorrect:
		return []tone{{freq: freq / 2, duration: 90 * time.Millisecond, volume: 0.3}}
	case session.EventSessionEnd:
		return []tone{
			{freq: freq, duration: 150 * time.Millisecond, volume: 0.3},
			{freq: freq * 3 / 4, duration: 150 * time.Millisecond, volume: 0.3},
			{freq: freq / 2, duration: 300 * time.Millisecond, volume: 0.3},
		}
	default:
		return nil
	}
}

// synth renders tones as signed 16-bit little-endian stereo PCM. Each tone
// fades in and out over a few milliseconds to avoid clicks.
func synth(tones []tone) []byte {
	total := 0
	for _, t := range tones {
		total += sampleCount(t.duration)
	}
	buf := make([]byte, 0, total*channelCount*bytesPerPCM)
	var frame [channelCount * bytesPerPCM]byte
	for _, t := range tones {
		n := sampleCount(t.duration)
		fade := sampleRate / 200
		if fade > n/2 {
			fade = n / 2
		}
		for i := 0; i < n; i++ {
			env := 1.0
			switch {
			case i < fade:
				env = float64(i) / float64(fade)
			case i >= n-fade:
				env = float64(n-1-i) / float64(fade)
			}
			v := math.Sin(2*math.Pi*t.freq*float64(i)/sampleRate) * t.volume * env
			s := int16(v * math.MaxInt16)
			for ch := 0; ch < channelCount; ch++ {
				binary.LittleEndian.PutUint16(frame[ch*bytesPerPCM:], uint16(s))
			}
			buf = append(buf, frame[:]...)
		}
	}
	return buf
}

func sampleCount(d time.Duration) int {
	return int(d.Seconds() * sampleRate)
}

// backgroundLoop is a quiet arpeggio built on the feedback frequency.
func backgroundLoop(freq float64) []byte {
	base := freq / 4
	step := 250 * time.Millisecond
	return synth([]tone{
		{freq: base, duration: step, volume: 0.06},
		{freq: base * 5 / 4, duration: step, volume: 0.06},
		{freq: base * 3 / 2, duration: step, volume: 0.06},
		{freq: base * 5 / 4, duration: step, volume: 0.06},
	})
}

// loopReader repeats data forever.
type loopReader struct {
	data []byte
	pos  int
}

func (l *loopReader) Read(p []byte) (int, error) {
	if len(l.data) == 0 {
		return 0, nil
	}
	n := 0
	for n < len(p) {
		c := copy(p[n:], l.data[l.pos:])
		n += c
		l.pos = (l.pos + c) % len(l.data)
	}
	return n, nil
}
