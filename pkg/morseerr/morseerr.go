// Package morseerr holds the error taxonomy shared by the dotdash packages.
//
// Every failure wraps one of the sentinel errors below, so callers can test
// for a category with errors.Is regardless of the message.
package morseerr

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrRatioOutOfRange    = errors.New("farnsworth ratio out of range")
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
	ErrNotReady           = errors.New("not ready")
	ErrUnknownSymbol      = errors.New("unknown symbol")
	ErrIOFailure          = errors.New("io failure")
)

func InvalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func RatioOutOfRange(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrRatioOutOfRange, fmt.Sprintf(format, args...))
}

func Overflow(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrArithmeticOverflow, fmt.Sprintf(format, args...))
}

func NotReady(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotReady, fmt.Sprintf(format, args...))
}

// IOFailure wraps err so that it matches both ErrIOFailure and err itself.
func IOFailure(err error, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %w", ErrIOFailure, fmt.Sprintf(format, args...), err)
}

// InvalidSymbol is one occurrence of a character that has no morse symbol.
// Position is the rune index in the input it was found in.
type InvalidSymbol struct {
	Position int
	Char     rune
}

func (s InvalidSymbol) String() string {
	return fmt.Sprintf("%q at %d", s.Char, s.Position)
}

// UnknownSymbolError reports every invalid occurrence in an input, not just the first.
type UnknownSymbolError struct {
	Symbols []InvalidSymbol
}

// NewUnknownSymbolError copies and sorts symbols by position.
func NewUnknownSymbolError(symbols []InvalidSymbol) *UnknownSymbolError {
	sorted := slices.Clone(symbols)
	slices.SortStableFunc(sorted, func(a, b InvalidSymbol) int {
		return a.Position - b.Position
	})
	return &UnknownSymbolError{Symbols: sorted}
}

func (e *UnknownSymbolError) Error() string {
	parts := make([]string, len(e.Symbols))
	for i, s := range e.Symbols {
		parts[i] = s.String()
	}
	return fmt.Sprintf("%s: %s", ErrUnknownSymbol, strings.Join(parts, ", "))
}

func (e *UnknownSymbolError) Is(target error) bool {
	return target == ErrUnknownSymbol
}

// Positions returns the positions of all invalid occurrences, ascending.
func (e *UnknownSymbolError) Positions() []int {
	out := make([]int, len(e.Symbols))
	for i, s := range e.Symbols {
		out[i] = s.Position
	}
	return out
}
