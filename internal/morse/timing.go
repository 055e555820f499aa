// Package morse converts text into Morse-keyed sine audio.
package morse

import (
	"errors"
	"fmt"
)

// Timing ratios relative to one dit (ITU).
const (
	// DahDitRatio is the dah length in dits.
	DahDitRatio = 3.0
	// IntraCharSpaceRatio is the gap between elements of one character.
	IntraCharSpaceRatio = 1.0
	// InterCharSpaceRatio is the gap between characters, before Farnsworth stretching.
	InterCharSpaceRatio = 3.0
	// WordSpaceRatio is the gap between words, before Farnsworth stretching.
	WordSpaceRatio = 7.0

	// ParisDitSeconds is the dit length at 1 WPM ("PARIS" = 50 dits per word).
	ParisDitSeconds = 1.2
)

var (
	// ErrInvalidSpeed indicates a zero speed or an effective speed above the character speed.
	ErrInvalidSpeed = errors.New("invalid speed configuration")
	// ErrInvalidSampleRate indicates a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("sample rate must be positive")
)

// Timing holds element and gap durations in seconds for one speed setting.
type Timing struct {
	CharWPM      int
	EffectiveWPM int
	SampleRate   int

	Dit        float64
	Dah        float64
	IntraGap   float64
	InterChar  float64
	InterWord  float64
	Farnsworth float64
}

// NewTiming computes durations from the character speed and the effective
// (Farnsworth) speed. Only the inter-character and inter-word gaps are
// stretched; dit, dah and the intra-character gap follow the character speed.
func NewTiming(charWPM, effectiveWPM, sampleRate int) (Timing, error) {
	if err := ValidateSpeed(charWPM, effectiveWPM); err != nil {
		return Timing{}, err
	}
	if sampleRate <= 0 {
		return Timing{}, fmt.Errorf("%w, got %d", ErrInvalidSampleRate, sampleRate)
	}
	dit := ParisDitSeconds / float64(charWPM)
	f := float64(charWPM) / float64(effectiveWPM)
	return Timing{
		CharWPM:      charWPM,
		EffectiveWPM: effectiveWPM,
		SampleRate:   sampleRate,
		Dit:          dit,
		Dah:          DahDitRatio * dit,
		IntraGap:     IntraCharSpaceRatio * dit,
		InterChar:    InterCharSpaceRatio * dit * f,
		InterWord:    WordSpaceRatio * dit * f,
		Farnsworth:   f,
	}, nil
}

// ValidateSpeed checks a character/effective WPM pair.
func ValidateSpeed(charWPM, effectiveWPM int) error {
	if charWPM <= 0 {
		return fmt.Errorf("%w: character wpm must be positive, got %d", ErrInvalidSpeed, charWPM)
	}
	if effectiveWPM <= 0 {
		return fmt.Errorf("%w: effective wpm must be positive, got %d", ErrInvalidSpeed, effectiveWPM)
	}
	if effectiveWPM > charWPM {
		return fmt.Errorf("%w: effective wpm %d exceeds character wpm %d", ErrInvalidSpeed, effectiveWPM, charWPM)
	}
	return nil
}

// Samples converts a duration in seconds to a sample count, truncating
// toward zero.
func (t Timing) Samples(seconds float64) int {
	return int(seconds * float64(t.SampleRate))
}
