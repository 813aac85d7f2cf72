// Package timing derives morse element and gap lengths from a speed.
//
// Two conventions are supported. Paris timing runs characters and spacing at
// the same rate. Farnsworth timing sends characters at the Paris rate but
// stretches the gaps between characters and words to reach a slower overall
// rate.
//
// Unit lengths are rounded to the nearest whole millisecond (never below 1 ms)
// and every interval is an exact multiple of its rounded unit. Speeds are
// back-computed from the rounded units, so they describe what is actually sent.
package timing

import (
	"fmt"
	"math"
	"time"

	"github.com/gigurra/dotdash/pkg/morseerr"
)

const (
	// unitsPerWord is the length of the reference word PARIS, including its trailing word gap.
	unitsPerWord = 50

	// MinRatio is the exclusive lower bound of parisWpm/farnsworthWpm.
	MinRatio = 0.62

	// DefaultFarnsworthFactor is used by FarnsworthFromWpm.
	DefaultFarnsworthFactor = 0.75
)

type Kind int

const (
	KindParis Kind = iota
	KindFarnsworth
)

func (k Kind) String() string {
	switch k {
	case KindParis:
		return "paris"
	case KindFarnsworth:
		return "farnsworth"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Profile is the accessor surface shared by Paris and Farnsworth. All lengths are in milliseconds.
type Profile interface {
	Kind() Kind
	DitMs() float64
	DahMs() float64
	IntraCharMs() float64
	InterCharMs() float64
	InterWordMs() float64
	ParisWpm() float64

	sealed()
}

// Paris is uniform-speed timing.
type Paris struct {
	unitMs float64
	wpm    float64
}

func (Paris) Kind() Kind { return KindParis }
func (p Paris) DitMs() float64 { return p.unitMs }
func (p Paris) DahMs() float64 { return 3 * p.unitMs }
func (p Paris) IntraCharMs() float64 { return p.unitMs }
func (p Paris) InterCharMs() float64 { return 3 * p.unitMs }
func (p Paris) InterWordMs() float64 { return 7 * p.unitMs }
func (p Paris) ParisWpm() float64 { return p.wpm }
func (p Paris) UnitMs() float64 { return p.unitMs }
func (Paris) sealed() {}

// Farnsworth is dual-speed timing: characters at the Paris unit, gaps at the slower Farnsworth unit.
type Farnsworth struct {
	parisUnitMs      float64
	farnsworthUnitMs float64
	parisWpm         float64
	farnsworthWpm    float64
}

func (Farnsworth) Kind() Kind { return KindFarnsworth }
func (f Farnsworth) DitMs() float64 { return f.parisUnitMs }
func (f Farnsworth) DahMs() float64 { return 3 * f.parisUnitMs }
func (f Farnsworth) IntraCharMs() float64 { return f.parisUnitMs }
func (f Farnsworth) InterCharMs() float64 { return 3 * f.farnsworthUnitMs }
func (f Farnsworth) InterWordMs() float64 { return 7 * f.farnsworthUnitMs }
func (f Farnsworth) ParisWpm() float64 { return f.parisWpm }
func (f Farnsworth) FarnsworthWpm() float64 { return f.farnsworthWpm }
func (f Farnsworth) ParisUnitMs() float64 { return f.parisUnitMs }
func (f Farnsworth) FarnsworthUnitMs() float64 { return f.farnsworthUnitMs }
func (Farnsworth) sealed() {}

// FromUnitMillis builds Paris timing from the length of one dit.
func FromUnitMillis(unitMs float64) (Paris, error) {
	unit, err := roundUnit("unitMs", unitMs)
	if err != nil {
		return Paris{}, err
	}
	return Paris{unitMs: unit, wpm: wpmFromUnit(unit)}, nil
}

// FromWpm builds Paris timing from words per minute.
func FromWpm(wpm float64) (Paris, error) {
	if !(wpm > 0) {
		return Paris{}, morseerr.InvalidArgument("wpm must be greater than 0, got %v", wpm)
	}
	return FromUnitMillis(unitFromWpm(wpm))
}

// FromDualUnitMillis builds Farnsworth timing from the two unit lengths.
func FromDualUnitMillis(farnsworthUnitMs, parisUnitMs float64) (Farnsworth, error) {
	if !(farnsworthUnitMs > 0) || !(parisUnitMs > 0) {
		return Farnsworth{}, morseerr.InvalidArgument(
			"unit lengths must be greater than 0, got farnsworthUnitMs=%v parisUnitMs=%v", farnsworthUnitMs, parisUnitMs)
	}

	paris, err := FromUnitMillis(parisUnitMs)
	if err != nil {
		return Farnsworth{}, err
	}
	fUnit, err := roundUnit("farnsworthUnitMs", farnsworthUnitMs)
	if err != nil {
		return Farnsworth{}, err
	}

	return Farnsworth{
		parisUnitMs:      paris.unitMs,
		farnsworthUnitMs: fUnit,
		parisWpm:         paris.wpm,
		farnsworthWpm:    60 / ((19*fUnit)/1000 + 37.2/paris.wpm),
	}, nil
}

// FromDualWpm builds Farnsworth timing from an overall rate and a character rate.
// parisWpm/farnsworthWpm must be above MinRatio.
func FromDualWpm(farnsworthWpm, parisWpm float64) (Farnsworth, error) {
	if !(farnsworthWpm > 0) || !(parisWpm > 0) {
		return Farnsworth{}, morseerr.InvalidArgument(
			"wpm must be greater than 0, got farnsworthWpm=%v parisWpm=%v", farnsworthWpm, parisWpm)
	}
	if ratio := parisWpm / farnsworthWpm; !(ratio > MinRatio) {
		return Farnsworth{}, morseerr.RatioOutOfRange(
			"parisWpm/farnsworthWpm must be above %v, got %v (farnsworthWpm=%v parisWpm=%v)", MinRatio, ratio, farnsworthWpm, parisWpm)
	}

	fUnit := ((60 / farnsworthWpm) - (37.2 / parisWpm)) * 1000 / 19
	pUnit := unitFromWpm(parisWpm)
	if overflows(fUnit) || overflows(pUnit) {
		return Farnsworth{}, morseerr.Overflow("derived units overflow: farnsworthUnitMs=%v parisUnitMs=%v", fUnit, pUnit)
	}
	return FromDualUnitMillis(fUnit, pUnit)
}

// FarnsworthFromWpm sends characters at wpm with an overall rate of 0.75*wpm.
func FarnsworthFromWpm(wpm float64) (Farnsworth, error) {
	return FromDualWpm(wpm*DefaultFarnsworthFactor, wpm)
}

// Duration converts a millisecond length from a Profile to a time.Duration.
func Duration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// Describe renders p on one line, for logs and command output.
func Describe(p Profile) string {
	s := fmt.Sprintf("%s dit=%gms dah=%gms intra=%gms char=%gms word=%gms wpm=%.2f",
		p.Kind(), p.DitMs(), p.DahMs(), p.IntraCharMs(), p.InterCharMs(), p.InterWordMs(), p.ParisWpm())
	if f, ok := p.(Farnsworth); ok {
		s += fmt.Sprintf(" fwpm=%.2f", f.FarnsworthWpm())
	}
	return s
}

func unitFromWpm(wpm float64) float64 {
	return (1000 * 60) / (wpm * unitsPerWord)
}

func wpmFromUnit(unitMs float64) float64 {
	return (1000 * 60) / (unitMs * unitsPerWord)
}

// overflows reports whether the longest interval derived from unitMs is out of range.
func overflows(unitMs float64) bool {
	return math.IsInf(7*unitMs, 0) || math.IsNaN(unitMs)
}

func roundUnit(name string, unitMs float64) (float64, error) {
	if !(unitMs > 0) {
		return 0, morseerr.InvalidArgument("%s must be greater than 0, got %v", name, unitMs)
	}
	if overflows(unitMs) {
		return 0, morseerr.Overflow("%s=%v overflows the inter-word length", name, unitMs)
	}
	return math.Max(1, math.Round(unitMs)), nil
}
