package info

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gigurra/dotdash/pkg/assembler"
	"github.com/gigurra/dotdash/pkg/morseerr"
	"github.com/gigurra/dotdash/pkg/wav"
)

func TestRun(t *testing.T) {
	a, err := assembler.New()
	if err != nil {
		t.Fatal(err)
	}
	pcm, err := a.RenderText("SOS", 100)
	if err != nil {
		t.Fatal(err)
	}
	container, _ := wav.Encode(pcm, wav.DefaultFormat())
	path, err := wav.SaveFile(filepath.Join(t.TempDir(), "sos"), container)
	if err != nil {
		t.Fatal(err)
	}

	var stdout bytes.Buffer
	if err := Run(&Params{Files: []string{path}}, &stdout); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, want := range []string{"44100 Hz", "16", "142884 bytes", "1.62s"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("output missing %q\n%s", want, stdout.String())
		}
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.wav")
	if err := os.WriteFile(garbage, []byte("definitely not a riff file, but long enough to parse"), 0644); err != nil {
		t.Fatal(err)
	}
	truncated := filepath.Join(dir, "truncated.wav")
	container, _ := wav.Encode(make([]byte, 100), wav.DefaultFormat())
	if err := os.WriteFile(truncated, container[:60], 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		files []string
		is    error
	}{
		{"none", nil, nil},
		{"missing", []string{filepath.Join(dir, "missing.wav")}, morseerr.ErrIOFailure},
		{"garbage", []string{garbage}, morseerr.ErrInvalidArgument},
		{"truncated", []string{truncated}, morseerr.ErrInvalidArgument},
	}
	for _, tt := range tests {
		var stdout bytes.Buffer
		err := Run(&Params{Files: tt.files}, &stdout)
		if err == nil {
			t.Errorf("%s: expected error", tt.name)
			continue
		}
		if tt.is != nil && !errors.Is(err, tt.is) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.is, err)
		}
	}
}
