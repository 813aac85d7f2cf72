package morse

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gigurra/dotdash/cmd/common/config"
	"github.com/gigurra/dotdash/pkg/assembler"
	"github.com/gigurra/dotdash/pkg/morseerr"
)

func isolateConfig(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvPath, filepath.Join(t.TempDir(), "config.yaml"))
}

func TestRun_EncodeArgs(t *testing.T) {
	var stdout bytes.Buffer
	err := Run(&Params{Text: []string{"sos", "help"}, Volume: -1}, strings.NewReader(""), &stdout)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := stdout.String(), "... --- ... / .... . .-.. .--.\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRun_DecodeStdin(t *testing.T) {
	var stdout bytes.Buffer
	stdin := strings.NewReader("... --- ...\n.... .. / - .... . .-. .\n")
	err := Run(&Params{Decode: true, Volume: -1}, stdin, &stdout)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got, want := stdout.String(), "SOS\nHI THERE\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRun_UnknownCharacters(t *testing.T) {
	var stdout bytes.Buffer
	err := Run(&Params{Text: []string{"a#b"}, Volume: -1}, strings.NewReader(""), &stdout)
	if !errors.Is(err, morseerr.ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol, got %v", err)
	}

	err = Run(&Params{Text: []string{"...---..."}, Decode: true, Volume: -1}, strings.NewReader(""), &stdout)
	if !errors.Is(err, morseerr.ErrUnknownSymbol) {
		t.Errorf("expected ErrUnknownSymbol from decode, got %v", err)
	}
}

func TestRun_BeepUsesConfigAndOverrides(t *testing.T) {
	isolateConfig(t)
	t.Setenv(config.EnvFrequency, "650")

	type call struct {
		text string
		wpm  float64
		freq float64
		vol  int
	}
	var calls []call
	original := playMorse
	playMorse = func(a *assembler.Assembler, text string) error {
		calls = append(calls, call{text, a.Timing().ParisWpm(), a.Frequency(), a.Volume()})
		return nil
	}
	defer func() { playMorse = original }()

	var stdout bytes.Buffer
	params := &Params{Beep: true, WPM: 30, Volume: 40}
	if err := Run(params, strings.NewReader("cq\nde sm0\n"), &stdout); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(calls) != 2 {
		t.Fatalf("got %d playback calls, want 2", len(calls))
	}
	want := call{"cq", 30, 650, 40}
	if calls[0] != want {
		t.Errorf("first call = %+v, want %+v", calls[0], want)
	}
	if calls[1].text != "de sm0" {
		t.Errorf("second call text = %q", calls[1].text)
	}
}

func TestRun_BeepFailureIsReported(t *testing.T) {
	isolateConfig(t)
	original := playMorse
	playMorse = func(*assembler.Assembler, string) error { return errors.New("no audio device") }
	defer func() { playMorse = original }()

	var stdout bytes.Buffer
	err := Run(&Params{Text: []string{"e"}, Beep: true, Volume: -1}, strings.NewReader(""), &stdout)
	if err == nil || !strings.Contains(err.Error(), "no audio device") {
		t.Errorf("expected playback error, got %v", err)
	}
}

func TestRun_BeepRejectsBadRatio(t *testing.T) {
	isolateConfig(t)
	var stdout bytes.Buffer
	err := Run(&Params{Text: []string{"e"}, Beep: true, WPM: 10, Farnsworth: 20, Volume: -1}, strings.NewReader(""), &stdout)
	if !errors.Is(err, morseerr.ErrRatioOutOfRange) {
		t.Errorf("expected ErrRatioOutOfRange, got %v", err)
	}
}

func TestRun_Clip(t *testing.T) {
	var captured string
	original := clipboardWriteAll
	clipboardWriteAll = func(text string) error {
		captured = text
		return nil
	}
	defer func() { clipboardWriteAll = original }()

	var stdout bytes.Buffer
	err := Run(&Params{Clip: true, Volume: -1}, strings.NewReader("e\nt\n"), &stdout)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if captured != ".\n-" {
		t.Errorf("clipboard got %q, want %q", captured, ".\n-")
	}
}
