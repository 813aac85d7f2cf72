// Package synth renders single tones and silences as 16-bit little-endian mono PCM.
package synth

import (
	"encoding/binary"
	"math"

	"github.com/gigurra/dotdash/pkg/morseerr"
)

const (
	SampleRate    = 44100
	BitsPerSample = 16
	Channels      = 1
	BytesPerFrame = Channels * BitsPerSample / 8

	// MaxAmplitude is the peak amplitude at 100% volume.
	MaxAmplitude = math.MaxInt16

	// FadeIn and FadeOut are fractions of the tone duration. The release is
	// slightly longer than the attack.
	FadeIn  = 0.05
	FadeOut = 0.055

	// maxBytes keeps a single buffer addressable on 32-bit platforms.
	maxBytes = math.MaxInt32
)

// Synthesizer generates tones at a fixed sample rate. The zero value uses SampleRate.
type Synthesizer struct {
	SampleRate int
}

var defaultSynthesizer = Synthesizer{SampleRate: SampleRate}

// GenerateTone renders a tone at the default 44.1 kHz sample rate.
func GenerateTone(durationSeconds, frequencyHz, amplitude float64) ([]byte, error) {
	return defaultSynthesizer.Tone(durationSeconds, frequencyHz, amplitude)
}

// Amplitude converts a volume in percent to a peak sample amplitude.
func Amplitude(volumePercent int) float64 {
	return float64(volumePercent) / 100 * MaxAmplitude
}

func (s Synthesizer) rate() int {
	if s.SampleRate <= 0 {
		return SampleRate
	}
	return s.SampleRate
}

// Samples returns the number of samples a tone of durationSeconds has.
func (s Synthesizer) Samples(durationSeconds float64) int {
	return int(math.Round(durationSeconds * float64(s.rate())))
}

// Tone renders durationSeconds of a sine at frequencyHz with a linear fade
// in and out. An amplitude of 0 renders silence.
func (s Synthesizer) Tone(durationSeconds, frequencyHz, amplitude float64) ([]byte, error) {
	if !(durationSeconds > 0) {
		return nil, morseerr.InvalidArgument("duration must be greater than 0, got %v", durationSeconds)
	}
	rate := float64(s.rate())
	if durationSeconds*rate*BytesPerFrame > maxBytes {
		return nil, morseerr.InvalidArgument("duration %vs is too long for one buffer", durationSeconds)
	}

	numSamples := s.Samples(durationSeconds)
	buf := make([]byte, BytesPerFrame*numSamples)
	if amplitude == 0 {
		return buf, nil
	}

	fadeInSamples := durationSeconds * FadeIn * rate
	fadeOutSamples := durationSeconds * FadeOut * rate
	fadeOutStart := float64(numSamples) - fadeOutSamples
	step := 2 * math.Pi * frequencyHz / rate

	for i := 0; i < numSamples; i++ {
		fi := float64(i)
		fade := 1.0
		if fi < fadeInSamples {
			fade = fi / fadeInSamples
		} else if fi > fadeOutStart {
			fade = 1 - (fi-fadeOutStart)/fadeOutSamples
		}
		v := math.Round(amplitude * math.Sin(step*fi) * fade)
		binary.LittleEndian.PutUint16(buf[BytesPerFrame*i:], uint16(clamp(v)))
	}
	return buf, nil
}

func clamp(v float64) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
