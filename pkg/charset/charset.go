// Package charset maps characters to morse symbol strings and back.
package charset

import (
	"slices"
	"strings"
	"unicode"

	"github.com/gigurra/dotdash/pkg/morseerr"
	"github.com/samber/lo"
)

const (
	Dit = '.'
	Dah = '-'

	// WordSeparator separates words in the human-readable morse form.
	WordSeparator = "/"
)

var Latin = map[rune]string{
	'A': ".-", 'B': "-...", 'C': "-.-.", 'D': "-..", 'E': ".",
	'F': "..-.", 'G': "--.", 'H': "....", 'I': "..", 'J': ".---",
	'K': "-.-", 'L': ".-..", 'M': "--", 'N': "-.", 'O': "---",
	'P': ".--.", 'Q': "--.-", 'R': ".-.", 'S': "...", 'T': "-",
	'U': "..-", 'V': "...-", 'W': ".--", 'X': "-..-", 'Y': "-.--",
	'Z': "--..",
}

var ArabicNumerals = map[rune]string{
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
}

var Punctuation = map[rune]string{
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '\'': ".----.",
	'!': "-.-.--", '/': "-..-.", '(': "-.--.", ')': "-.--.-",
	'&': ".-...", ':': "---...", ';': "-.-.-.", '=': "-...-",
	'+': ".-.-.", '-': "-....-", '_': "..--.-", '"': ".-..-.",
	'$': "...-..-", '@': ".--.-.",
}

// Table is an immutable bidirectional character <-> symbol mapping.
type Table struct {
	toSymbol map[rune]string
	toChar   map[string]rune
}

// Default returns a table with the latin alphabet, numerals and punctuation.
func Default() *Table {
	t, err := NewTable(Latin, ArabicNumerals, Punctuation)
	if err != nil {
		panic(err) // built-in sets are known to be consistent
	}
	return t
}

// NewTable merges the given sets. A character or a symbol string may only
// appear once across all sets.
func NewTable(sets ...map[rune]string) (*Table, error) {
	toSymbol := make(map[rune]string)
	for _, set := range sets {
		for r, symbol := range set {
			if err := checkPair(r, symbol); err != nil {
				return nil, err
			}
			if existing, ok := toSymbol[r]; ok {
				return nil, morseerr.InvalidArgument("character %q already mapped to %q", r, existing)
			}
			toSymbol[r] = symbol
		}
	}

	toChar := lo.Invert(toSymbol)
	if len(toChar) != len(toSymbol) {
		return nil, morseerr.InvalidArgument("symbol strings must be unique: %d characters share %d symbols", len(toSymbol), len(toChar))
	}

	return &Table{toSymbol: toSymbol, toChar: toChar}, nil
}

func checkPair(r rune, symbol string) error {
	if unicode.IsSpace(r) {
		return morseerr.InvalidArgument("whitespace %q cannot be mapped, it is a delimiter", r)
	}
	if unicode.ToUpper(r) != r {
		return morseerr.InvalidArgument("character %q must be uppercase", r)
	}
	if symbol == "" {
		return morseerr.InvalidArgument("character %q has an empty symbol string", r)
	}
	for _, s := range symbol {
		if s != Dit && s != Dah {
			return morseerr.InvalidArgument("symbol string %q for %q may only contain '.' and '-'", symbol, r)
		}
	}
	return nil
}

// Lookup returns the symbol string for r, case-insensitively.
func (t *Table) Lookup(r rune) (string, bool) {
	s, ok := t.toSymbol[unicode.ToUpper(r)]
	return s, ok
}

// Character is the inverse of Lookup.
func (t *Table) Character(symbol string) (rune, bool) {
	r, ok := t.toChar[symbol]
	return r, ok
}

// Characters returns every mapped character in ascending order.
func (t *Table) Characters() []rune {
	keys := lo.Keys(t.toSymbol)
	slices.Sort(keys)
	return keys
}

func (t *Table) Len() int {
	return len(t.toSymbol)
}

// Validate reports whether every non-whitespace character in text is mapped.
func (t *Table) Validate(text string) bool {
	return len(t.FindInvalidSymbols(text)) == 0
}

// FindInvalidSymbols returns every unmapped character of text with its rune
// index, in ascending order. Whitespace is never invalid.
func (t *Table) FindInvalidSymbols(text string) []morseerr.InvalidSymbol {
	var invalid []morseerr.InvalidSymbol
	for i, r := range []rune(text) {
		if unicode.IsSpace(r) {
			continue
		}
		if _, ok := t.Lookup(r); !ok {
			invalid = append(invalid, morseerr.InvalidSymbol{Position: i, Char: r})
		}
	}
	return invalid
}

// Words uppercases text and splits it on whitespace.
func Words(text string) [][]rune {
	fields := strings.Fields(strings.ToUpper(text))
	return lo.Map(fields, func(f string, _ int) []rune {
		return []rune(f)
	})
}

// Encode converts text to its human-readable morse form: symbol strings
// separated by a space, words separated by " / ".
func (t *Table) Encode(text string) (string, error) {
	if invalid := t.FindInvalidSymbols(text); len(invalid) > 0 {
		return "", morseerr.NewUnknownSymbolError(invalid)
	}

	words := Words(text)
	encoded := make([]string, len(words))
	for i, word := range words {
		codes := make([]string, len(word))
		for j, r := range word {
			codes[j], _ = t.Lookup(r)
		}
		encoded[i] = strings.Join(codes, " ")
	}
	return strings.Join(encoded, " "+WordSeparator+" "), nil
}

// Decode is the inverse of Encode. Positions of unknown symbol strings
// in the error are indexes of the code group in the input.
func (t *Table) Decode(morse string) (string, error) {
	var result strings.Builder
	var invalid []morseerr.InvalidSymbol
	pendingSpace := false

	for i, code := range strings.Fields(morse) {
		if code == WordSeparator {
			pendingSpace = result.Len() > 0
			continue
		}
		r, ok := t.Character(code)
		if !ok {
			invalid = append(invalid, morseerr.InvalidSymbol{Position: i, Char: unicode.ReplacementChar})
			continue
		}
		if pendingSpace {
			result.WriteRune(' ')
			pendingSpace = false
		}
		result.WriteRune(r)
	}

	if len(invalid) > 0 {
		return "", morseerr.NewUnknownSymbolError(invalid)
	}
	return result.String(), nil
}
