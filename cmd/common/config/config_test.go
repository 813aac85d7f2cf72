package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gigurra/dotdash/pkg/timing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFrom_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("got %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "wpm: 25\noutput_dir: /tmp/morse\n")
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Wpm != 25 || cfg.OutputDir != "/tmp/morse" {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.FrequencyHz != 750 || cfg.VolumePercent != 100 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "wpm: 25\nfrequency_hz: 600\nvolume_percent: 80\n")
	t.Setenv(EnvWpm, "18")
	t.Setenv(EnvFrequency, " 900 ")
	t.Setenv(EnvVolume, "not-a-number")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Wpm != 18 {
		t.Errorf("Wpm = %v, want 18", cfg.Wpm)
	}
	if cfg.FrequencyHz != 900 {
		t.Errorf("FrequencyHz = %v, want 900", cfg.FrequencyHz)
	}
	if cfg.VolumePercent != 80 {
		t.Errorf("VolumePercent = %d, want 80 (unparsable override ignored)", cfg.VolumePercent)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []string{
		"wpm: 0\n",
		"frequency_hz: -1\n",
		"volume_percent: 101\n",
		"farnsworth_wpm: -3\n",
		"wpm: [not, a, number]\n",
	}
	for _, content := range tests {
		if _, err := LoadFrom(writeConfig(t, content)); err == nil {
			t.Errorf("LoadFrom(%q) should return error", content)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	t.Setenv(EnvPath, path)

	want := &Config{Wpm: 30, FarnsworthWpm: 20, FrequencyHz: 650, VolumePercent: 40, OutputDir: "out"}
	if err := Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestTiming(t *testing.T) {
	cfg := DefaultConfig()
	p, err := cfg.Timing()
	if err != nil {
		t.Fatalf("Timing failed: %v", err)
	}
	if p.Kind() != timing.KindParis || p.DitMs() != 60 {
		t.Errorf("default timing = %s", timing.Describe(p))
	}

	cfg.FarnsworthWpm = 15
	p, err = cfg.Timing()
	if err != nil {
		t.Fatalf("Timing failed: %v", err)
	}
	if p.Kind() != timing.KindFarnsworth || p.DitMs() != 60 || p.InterCharMs() <= 180 {
		t.Errorf("farnsworth timing = %s", timing.Describe(p))
	}
}

func TestWithOverrides(t *testing.T) {
	base := &Config{Wpm: 20, FrequencyHz: 750, VolumePercent: 100, OutputDir: "x"}

	got := base.WithOverrides(0, 0, 0, -1)
	if *got != *base {
		t.Errorf("unset overrides changed config: %+v", got)
	}

	got = base.WithOverrides(30, 12, 600, 0)
	want := Config{Wpm: 30, FarnsworthWpm: 12, FrequencyHz: 600, VolumePercent: 0, OutputDir: "x"}
	if *got != want {
		t.Errorf("WithOverrides = %+v, want %+v", got, want)
	}
	if base.Wpm != 20 {
		t.Error("WithOverrides modified the receiver")
	}
}

func TestAssembler(t *testing.T) {
	cfg := &Config{Wpm: 40, FrequencyHz: 600, VolumePercent: 30}
	a, err := cfg.Assembler()
	if err != nil {
		t.Fatalf("Assembler failed: %v", err)
	}
	if a.Timing().DitMs() != 30 || a.Frequency() != 600 || a.Volume() != 30 {
		t.Errorf("assembler = %s at %v Hz, %d%%", timing.Describe(a.Timing()), a.Frequency(), a.Volume())
	}

	bad := &Config{Wpm: 20, FarnsworthWpm: 40, FrequencyHz: 750, VolumePercent: 100}
	if _, err := bad.Assembler(); err == nil {
		t.Error("expected ratio error for farnsworth faster than paris by more than allowed")
	}
}
