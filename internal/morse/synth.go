package morse

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/koch/internal/curriculum"
)

// Amplitude leaves headroom below full scale.
const Amplitude = 0.9

// ErrInvalidTone indicates a tone frequency that is not positive or not below Nyquist.
var ErrInvalidTone = errors.New("invalid tone frequency")

// Buffer is mono audio ready for a playback sink.
type Buffer struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Duration returns the playing time of the buffer.
func (b Buffer) Duration() time.Duration {
	if b.SampleRate <= 0 || b.Channels <= 0 {
		return 0
	}
	frames := len(b.Samples) / b.Channels
	return time.Duration(float64(frames) / float64(b.SampleRate) * float64(time.Second))
}

// Synthesizer renders text using blocks precomputed for one timing profile.
type Synthesizer struct {
	timing Timing
	toneHz float64

	dit       []float32
	dah       []float32
	intraGap  []float32
	interChar []float32
	interWord []float32
}

// NewSynthesizer precomputes the tone and silence blocks for t.
func NewSynthesizer(t Timing, toneHz float64) (*Synthesizer, error) {
	if t.SampleRate <= 0 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidSampleRate, t.SampleRate)
	}
	nyquist := float64(t.SampleRate) / 2
	if toneHz <= 0 || toneHz >= nyquist {
		return nil, fmt.Errorf("%w: %v Hz (must be in (0, %v))", ErrInvalidTone, toneHz, nyquist)
	}
	return &Synthesizer{
		timing:    t,
		toneHz:    toneHz,
		dit:       sineBlock(toneHz, t.Samples(t.Dit), t.SampleRate),
		dah:       sineBlock(toneHz, t.Samples(t.Dah), t.SampleRate),
		intraGap:  make([]float32, t.Samples(t.IntraGap)),
		interChar: make([]float32, t.Samples(t.InterChar)),
		interWord: make([]float32, t.Samples(t.InterWord)),
	}, nil
}

// Timing returns the profile the synthesizer was built with.
func (s *Synthesizer) Timing() Timing {
	return s.timing
}

// ToneHz returns the tone frequency.
func (s *Synthesizer) ToneHz() float64 {
	return s.toneHz
}

// Synthesize renders text into one flat buffer. A space emits only the word
// gap. Characters without a pattern are skipped.
func (s *Synthesizer) Synthesize(text string) Buffer {
	out := make([]float32, 0, s.estimate(text))
	for _, r := range text {
		if r == ' ' {
			out = append(out, s.interWord...)
			continue
		}
		pattern, err := curriculum.PatternOf(r)
		if err != nil || pattern == curriculum.WordGap {
			continue
		}
		for i, sym := range pattern {
			switch sym {
			case curriculum.Dit:
				out = append(out, s.dit...)
			case curriculum.Dah:
				out = append(out, s.dah...)
			}
			if i < len(pattern)-1 {
				out = append(out, s.intraGap...)
			}
		}
		out = append(out, s.interChar...)
	}
	return Buffer{Samples: out, SampleRate: s.timing.SampleRate, Channels: 1}
}

// estimate returns an upper bound on the samples needed for text.
func (s *Synthesizer) estimate(text string) int {
	longest := 6*(len(s.dah)+len(s.intraGap)) + len(s.interChar)
	if len(s.interWord) > longest {
		longest = len(s.interWord)
	}
	return len(text) * longest
}

func sineBlock(freq float64, n, sampleRate int) []float32 {
	block := make([]float32, n)
	step := 2 * math.Pi * freq / float64(sampleRate)
	for i := range block {
		block[i] = float32(Amplitude * math.Sin(step*float64(i)))
	}
	return block
}
