// Package assembler turns words into one continuous PCM payload.
//
// Every mapped character is rendered once into a per-character cache for the
// current (timing, frequency, volume, table) tuple. A phrase is then just the
// cached characters joined by pre-rendered inter-character and inter-word
// silences.
//
// The cache is never modified in place. Any configuration change builds a
// complete new cache and publishes it with an atomic swap, so concurrent
// renders always see either the old or the new cache in full.
package assembler

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
	"unicode"

	"github.com/gigurra/dotdash/pkg/charset"
	"github.com/gigurra/dotdash/pkg/morseerr"
	"github.com/gigurra/dotdash/pkg/synth"
	"github.com/gigurra/dotdash/pkg/timing"
	"github.com/samber/lo"
)

const (
	DefaultWpm         = 20
	DefaultFrequencyHz = 750
	DefaultVolume      = 100
)

type config struct {
	timing      timing.Profile
	frequencyHz float64
	table       *charset.Table
	volume      int
	synth       synth.Synthesizer
}

func (c config) complete() bool {
	return c.timing != nil && c.table != nil && c.frequencyHz > 0
}

type Option func(*config) error

func WithTiming(p timing.Profile) Option {
	return func(c *config) error {
		if p == nil {
			return morseerr.InvalidArgument("timing must not be nil")
		}
		c.timing = p
		return nil
	}
}

func WithFrequency(hz float64) Option {
	return func(c *config) error {
		if err := checkFrequency(hz); err != nil {
			return err
		}
		c.frequencyHz = hz
		return nil
	}
}

func WithTable(t *charset.Table) Option {
	return func(c *config) error {
		if t == nil {
			return morseerr.InvalidArgument("table must not be nil")
		}
		c.table = t
		return nil
	}
}

func WithVolume(percent int) Option {
	return func(c *config) error {
		if err := checkVolume(percent); err != nil {
			return err
		}
		c.volume = percent
		return nil
	}
}

func WithSynthesizer(s synth.Synthesizer) Option {
	return func(c *config) error {
		c.synth = s
		return nil
	}
}

func checkFrequency(hz float64) error {
	if !(hz > 0) || math.IsInf(hz, 0) {
		return morseerr.InvalidArgument("frequency must be a positive finite number, got %v", hz)
	}
	return nil
}

func checkVolume(percent int) error {
	if percent < 0 || percent > 100 {
		return morseerr.InvalidArgument("volume must be within 0..100, got %d", percent)
	}
	return nil
}

// charCache is the fully rendered audio for one config.
type charCache struct {
	config
	chars     map[rune][]byte
	interChar []byte
	interWord []byte
}

// Assembler renders phrases from a cache of per-character audio.
//
// The zero value is usable but not ready: renders fail with ErrNotReady until
// timing, frequency and table have all been set.
type Assembler struct {
	mu    sync.Mutex // serializes rebuilds; guards cfg
	cfg   config
	cache atomic.Pointer[charCache]
}

// New returns an Assembler with a built cache. Unset options default to
// 20 WPM Paris timing, 750 Hz, the default character table and 100% volume.
func New(opts ...Option) (*Assembler, error) {
	cfg := config{
		frequencyHz: DefaultFrequencyHz,
		volume:      DefaultVolume,
		synth:       synth.Synthesizer{SampleRate: synth.SampleRate},
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.timing == nil {
		p, err := timing.FromWpm(DefaultWpm)
		if err != nil {
			return nil, err
		}
		cfg.timing = p
	}
	if cfg.table == nil {
		cfg.table = charset.Default()
	}

	a := &Assembler{}
	if err := a.reconfigure(func(c *config) error {
		*c = cfg
		return nil
	}); err != nil {
		return nil, err
	}
	return a, nil
}

// SetTiming replaces the timing profile and rebuilds the cache.
func (a *Assembler) SetTiming(p timing.Profile) error {
	return a.reconfigure(WithTiming(p))
}

// SetFrequency replaces the tone frequency and rebuilds the cache.
func (a *Assembler) SetFrequency(hz float64) error {
	return a.reconfigure(WithFrequency(hz))
}

// SetTable replaces the character table and rebuilds the cache.
func (a *Assembler) SetTable(t *charset.Table) error {
	return a.reconfigure(WithTable(t))
}

func (a *Assembler) Timing() timing.Profile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.timing
}

func (a *Assembler) Frequency() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.frequencyHz
}

func (a *Assembler) Table() *charset.Table {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.table
}

// Volume returns the volume the current cache was rendered at.
func (a *Assembler) Volume() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cfg.volume
}

// Ready reports whether a cache has been built.
func (a *Assembler) Ready() bool {
	return a.cache.Load() != nil
}

// reconfigure applies change to a copy of the config and, if the result is
// complete, builds and publishes a new cache. On error nothing changes.
func (a *Assembler) reconfigure(change Option) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.cfg
	if err := change(&next); err != nil {
		return err
	}
	if !next.complete() {
		a.cfg = next
		return nil
	}

	c, err := build(next)
	if err != nil {
		return err
	}
	a.cfg = next
	a.cache.Store(c)
	return nil
}

// snapshot returns a cache rendered at volume, rebuilding if the published
// cache was rendered at a different volume.
func (a *Assembler) snapshot(volume int) (*charCache, error) {
	if err := checkVolume(volume); err != nil {
		return nil, err
	}
	c := a.cache.Load()
	if c == nil {
		return nil, morseerr.NotReady("character cache has not been built")
	}
	if c.volume == volume {
		return c, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if c = a.cache.Load(); c.volume == volume {
		return c, nil
	}
	next := a.cfg
	next.volume = volume
	c, err := build(next)
	if err != nil {
		return nil, err
	}
	a.cfg = next
	a.cache.Store(c)
	return c, nil
}

func build(cfg config) (*charCache, error) {
	amplitude := synth.Amplitude(cfg.volume)
	tone := func(ms, amp float64) ([]byte, error) {
		return cfg.synth.Tone(ms/1000, cfg.frequencyHz, amp)
	}

	dit, err := tone(cfg.timing.DitMs(), amplitude)
	if err != nil {
		return nil, err
	}
	dah, err := tone(cfg.timing.DahMs(), amplitude)
	if err != nil {
		return nil, err
	}
	intra, err := tone(cfg.timing.IntraCharMs(), 0)
	if err != nil {
		return nil, err
	}
	interChar, err := tone(cfg.timing.InterCharMs(), 0)
	if err != nil {
		return nil, err
	}
	interWord, err := tone(cfg.timing.InterWordMs(), 0)
	if err != nil {
		return nil, err
	}

	chars := make(map[rune][]byte, cfg.table.Len())
	for _, r := range cfg.table.Characters() {
		symbols, _ := cfg.table.Lookup(r)
		var buf []byte
		for i, s := range symbols {
			if i > 0 {
				buf = append(buf, intra...)
			}
			if s == charset.Dah {
				buf = append(buf, dah...)
			} else {
				buf = append(buf, dit...)
			}
		}
		chars[r] = buf
	}

	slog.Debug("rebuilt character cache",
		"timing", timing.Describe(cfg.timing),
		"frequency_hz", cfg.frequencyHz,
		"volume", cfg.volume,
		"characters", len(chars))

	return &charCache{
		config:    cfg,
		chars:     chars,
		interChar: interChar,
		interWord: interWord,
	}, nil
}

// RenderText validates text, splits it into words on whitespace and renders it.
// Positions in an UnknownSymbolError are rune indexes into text.
func (a *Assembler) RenderText(text string, volumePercent int) ([]byte, error) {
	c, err := a.snapshot(volumePercent)
	if err != nil {
		return nil, err
	}
	if invalid := c.table.FindInvalidSymbols(text); len(invalid) > 0 {
		return nil, morseerr.NewUnknownSymbolError(invalid)
	}
	return c.render(charset.Words(text)), nil
}

// RenderPhrase renders words at volumePercent. Characters are joined by the
// inter-character gap and words by the inter-word gap, with no trailing gap.
//
// Positions in an UnknownSymbolError count runes as if the words were joined
// by single spaces.
func (a *Assembler) RenderPhrase(words [][]rune, volumePercent int) ([]byte, error) {
	c, err := a.snapshot(volumePercent)
	if err != nil {
		return nil, err
	}
	if err := c.validate(words); err != nil {
		return nil, err
	}
	return c.render(words), nil
}

// Duration computes how long words last from the timing fields and symbol
// counts, without rendering anything.
func (a *Assembler) Duration(words [][]rune) (time.Duration, error) {
	c := a.cache.Load()
	if c == nil {
		return 0, morseerr.NotReady("character cache has not been built")
	}
	if err := c.validate(words); err != nil {
		return 0, err
	}

	p := c.timing
	words = nonEmpty(words)
	ms := lo.SumBy(words, func(word []rune) float64 {
		chars := lo.SumBy(word, func(r rune) float64 {
			symbols, _ := c.table.Lookup(r)
			var total float64
			for _, s := range symbols {
				if s == charset.Dah {
					total += p.DahMs()
				} else {
					total += p.DitMs()
				}
			}
			return total + float64(len(symbols)-1)*p.IntraCharMs()
		})
		return chars + float64(len(word)-1)*p.InterCharMs()
	})
	if len(words) > 1 {
		ms += float64(len(words)-1) * p.InterWordMs()
	}
	return timing.Duration(ms), nil
}

func (c *charCache) validate(words [][]rune) error {
	var invalid []morseerr.InvalidSymbol
	pos := 0
	for i, word := range words {
		if i > 0 {
			pos++ // the separating space
		}
		for _, r := range word {
			if _, ok := c.chars[unicode.ToUpper(r)]; !ok {
				invalid = append(invalid, morseerr.InvalidSymbol{Position: pos, Char: r})
			}
			pos++
		}
	}
	if len(invalid) > 0 {
		return morseerr.NewUnknownSymbolError(invalid)
	}
	return nil
}

// render assumes words has been validated.
func (c *charCache) render(words [][]rune) []byte {
	words = nonEmpty(words)

	size := lo.SumBy(words, func(word []rune) int {
		n := lo.SumBy(word, func(r rune) int { return len(c.chars[unicode.ToUpper(r)]) })
		return n + (len(word)-1)*len(c.interChar)
	})
	if len(words) > 1 {
		size += (len(words) - 1) * len(c.interWord)
	}

	out := make([]byte, 0, size)
	for i, word := range words {
		if i > 0 {
			out = append(out, c.interWord...)
		}
		for j, r := range word {
			if j > 0 {
				out = append(out, c.interChar...)
			}
			out = append(out, c.chars[unicode.ToUpper(r)]...)
		}
	}
	return out
}

func nonEmpty(words [][]rune) [][]rune {
	return lo.Filter(words, func(word []rune, _ int) bool {
		return len(word) > 0
	})
}
