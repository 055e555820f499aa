// Package audio plays synthesized Morse buffers and writes them to WAV.
package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/verte-zerg/koch/internal/morse"
)

var (
	// ErrNotInitialized is returned by Play after Close or on a zero Player.
	ErrNotInitialized = errors.New("audio playback not initialized")
	// ErrMonoOnly rejects buffers with more than one channel.
	ErrMonoOnly = errors.New("only mono buffers can be played")
)

// Handle is a live playback. Stop silences it immediately and is safe to
// call more than once.
type Handle interface {
	Stop()
}

// Sink accepts a buffer and starts playing it without waiting for the end.
type Sink interface {
	Play(buf morse.Buffer) (Handle, error)
}

// Player is a Sink backed by the default malgo playback device.
type Player struct {
	mu  sync.Mutex
	ctx *malgo.AllocatedContext
}

// NewPlayer initializes the audio backend.
func NewPlayer() (*Player, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}
	return &Player{ctx: ctx}, nil
}

// Play opens a playback device for buf and starts it.
func (p *Player) Play(buf morse.Buffer) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx == nil {
		return nil, ErrNotInitialized
	}
	if buf.Channels != 1 {
		return nil, fmt.Errorf("%w, got %d channels", ErrMonoOnly, buf.Channels)
	}

	s := &Stream{samples: buf.Samples, done: make(chan struct{})}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(buf.SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(p.ctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: s.fill,
	})
	if err != nil {
		return nil, fmt.Errorf("init device: %w", err)
	}
	s.device = device
	if err := device.Start(); err != nil {
		s.device = nil
		device.Uninit()
		return nil, fmt.Errorf("start device: %w", err)
	}
	go s.releaseWhenDone()
	return s, nil
}

// Close releases the audio backend.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctx == nil {
		return nil
	}
	if err := p.ctx.Uninit(); err != nil {
		return fmt.Errorf("uninit context: %w", err)
	}
	p.ctx.Free()
	p.ctx = nil
	return nil
}

// Stream is one buffer being played on its own device.
type Stream struct {
	mu       sync.Mutex
	device   *malgo.Device
	samples  []float32
	pos      int
	stopped  bool
	doneOnce sync.Once
	done     chan struct{}
}

// Done is closed once the device has played every sample or the stream has
// been stopped.
func (s *Stream) Done() <-chan struct{} {
	return s.done
}

// Stop silences the stream and releases its device.
func (s *Stream) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	device := s.device
	s.device = nil
	s.mu.Unlock()

	// device.Stop waits for the data callback, which takes s.mu.
	if device != nil {
		_ = device.Stop()
		device.Uninit()
	}
	s.finish()
}

// releaseWhenDone frees the device once playback ends on its own. Stop
// cannot run on the audio thread since device.Stop waits for the callback.
func (s *Stream) releaseWhenDone() {
	<-s.done
	s.Stop()
}

// fill runs on the audio thread. The stream counts as done on the first
// period requested after the last sample, so the device has played it.
func (s *Stream) fill(out, _ []byte, frameCount uint32) {
	s.mu.Lock()
	drained := s.pos >= len(s.samples)
	n := 0
	if !s.stopped {
		n = copyFloat32(out, s.samples[s.pos:], int(frameCount))
		s.pos += n
	}
	s.mu.Unlock()

	for i := n * 4; i < len(out); i++ {
		out[i] = 0
	}
	if drained {
		s.finish()
	}
}

func (s *Stream) finish() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// copyFloat32 writes up to frames samples as little-endian float32 and
// returns the count written.
func copyFloat32(out []byte, samples []float32, frames int) int {
	n := frames
	if n > len(samples) {
		n = len(samples)
	}
	if n > len(out)/4 {
		n = len(out) / 4
	}
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(samples[i]))
	}
	return n
}

// Silent is a Sink that discards audio. It backs --mute and hosts without
// an output device.
type Silent struct{}

// Play returns a handle that does nothing.
func (Silent) Play(morse.Buffer) (Handle, error) {
	return silentHandle{}, nil
}

type silentHandle struct{}

func (silentHandle) Stop() {}
