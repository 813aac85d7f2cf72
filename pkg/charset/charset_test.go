package charset

import (
	"errors"
	"testing"

	"github.com/gigurra/dotdash/pkg/morseerr"
)

func TestDefaultTableRoundTrips(t *testing.T) {
	table := Default()
	if table.Len() != len(Latin)+len(ArabicNumerals)+len(Punctuation) {
		t.Fatalf("Len() = %d, want %d", table.Len(), len(Latin)+len(ArabicNumerals)+len(Punctuation))
	}

	for _, r := range table.Characters() {
		symbol, ok := table.Lookup(r)
		if !ok {
			t.Fatalf("Lookup(%q) missing", r)
		}
		back, ok := table.Character(symbol)
		if !ok || back != r {
			t.Errorf("Character(%q) = %q, %v, want %q", symbol, back, ok, r)
		}
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	table := Default()
	upper, _ := table.Lookup('S')
	lower, ok := table.Lookup('s')
	if !ok || lower != upper || upper != "..." {
		t.Errorf("Lookup('s') = %q, %v, want %q", lower, ok, "...")
	}
}

func TestNewTableRejectsInvalidSets(t *testing.T) {
	tests := []struct {
		name string
		sets []map[rune]string
	}{
		{"duplicate symbol", []map[rune]string{{'A': ".-", 'B': ".-"}}},
		{"duplicate character across sets", []map[rune]string{{'A': ".-"}, {'A': "-."}}},
		{"bad symbol rune", []map[rune]string{{'A': ".x"}}},
		{"empty symbol", []map[rune]string{{'A': ""}}},
		{"whitespace key", []map[rune]string{{' ': ".-"}}},
		{"lowercase key", []map[rune]string{{'a': ".-"}}},
		{"collision with latin", []map[rune]string{Latin, {'*': "-..-"}}},
	}

	for _, tc := range tests {
		_, err := NewTable(tc.sets...)
		if !errors.Is(err, morseerr.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}
}

func TestFindInvalidSymbolsReportsEveryOccurrence(t *testing.T) {
	table := Default()
	got := table.FindInvalidSymbols("a#b %c#")
	want := []morseerr.InvalidSymbol{
		{Position: 1, Char: '#'},
		{Position: 4, Char: '%'},
		{Position: 6, Char: '#'},
	}

	if len(got) != len(want) {
		t.Fatalf("FindInvalidSymbols = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FindInvalidSymbols[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindInvalidSymbolsUsesRuneIndexes(t *testing.T) {
	table := Default()
	got := table.FindInvalidSymbols("ÅÄ A")
	if len(got) != 2 || got[0].Position != 0 || got[1].Position != 1 {
		t.Errorf("FindInvalidSymbols = %v, want positions 0 and 1", got)
	}
}

func TestValidateTreatsWhitespaceAsDelimiter(t *testing.T) {
	table := Default()
	tests := []struct {
		input    string
		expected bool
	}{
		{"SOS", true},
		{"hello world", true},
		{"  tabs\tand\nnewlines  ", true},
		{"", true},
		{"50% off", false},
		{"#", false},
	}

	for _, tc := range tests {
		if got := table.Validate(tc.input); got != tc.expected {
			t.Errorf("Validate(%q) = %v, want %v", tc.input, got, tc.expected)
		}
	}
}

func TestWords(t *testing.T) {
	words := Words("  sos\t hi  ")
	if len(words) != 2 {
		t.Fatalf("Words returned %d words, want 2", len(words))
	}
	if string(words[0]) != "SOS" || string(words[1]) != "HI" {
		t.Errorf("Words = %q, %q", string(words[0]), string(words[1]))
	}
	if len(Words("   ")) != 0 {
		t.Error("expected no words for blank input")
	}
}

func TestEncode(t *testing.T) {
	table := Default()
	tests := []struct {
		input    string
		expected string
	}{
		{"SOS", "... --- ..."},
		{"sos", "... --- ..."},
		{"AB AC", ".- -... / .- -.-."},
		{"hello  world", ".... . .-.. .-.. --- / .-- --- .-. .-.. -.."},
		{"", ""},
	}

	for _, tc := range tests {
		result, err := table.Encode(tc.input)
		if err != nil {
			t.Errorf("Encode(%q) returned error: %v", tc.input, err)
			continue
		}
		if result != tc.expected {
			t.Errorf("Encode(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestEncodeAggregatesInvalidCharacters(t *testing.T) {
	_, err := Default().Encode("a#b#")
	var unknown *morseerr.UnknownSymbolError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSymbolError, got %v", err)
	}
	if len(unknown.Symbols) != 2 || unknown.Symbols[0].Position != 1 || unknown.Symbols[1].Position != 3 {
		t.Errorf("unexpected symbols %v", unknown.Symbols)
	}
}

func TestDecode(t *testing.T) {
	table := Default()
	tests := []struct {
		input    string
		expected string
	}{
		{"... --- ...", "SOS"},
		{".- -... / .- -.-.", "AB AC"},
		{"/ .- /", "A"},
		{"", ""},
	}

	for _, tc := range tests {
		result, err := table.Decode(tc.input)
		if err != nil {
			t.Errorf("Decode(%q) returned error: %v", tc.input, err)
			continue
		}
		if result != tc.expected {
			t.Errorf("Decode(%q) = %q, want %q", tc.input, result, tc.expected)
		}
	}
}

func TestDecodeReportsUnknownGroups(t *testing.T) {
	_, err := Default().Decode(".- ........ -... ..-.-.-.-")
	var unknown *morseerr.UnknownSymbolError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownSymbolError, got %v", err)
	}
	positions := unknown.Positions()
	if len(positions) != 2 || positions[0] != 1 || positions[1] != 3 {
		t.Errorf("Positions() = %v, want [1 3]", positions)
	}
}
