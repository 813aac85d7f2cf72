package common

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	if got, want := CacheDir(), filepath.Join(dir, "dotdash"); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}
}

func TestConfigDir_Home(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got, want := ConfigDir(), filepath.Join(home, ".dotdash"); got != want {
		t.Errorf("ConfigDir() = %q, want %q", got, want)
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		verbose   bool
		wantDebug bool
	}{
		{false, false},
		{true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := NewLogger(&buf, tt.verbose)
		logger.Debug("rebuilt", "volume", 50)
		logger.Info("wrote", "path", "sos.wav")

		out := buf.String()
		if got := strings.Contains(out, "msg=rebuilt"); got != tt.wantDebug {
			t.Errorf("verbose=%v: debug record present = %v, want %v\n%s", tt.verbose, got, tt.wantDebug, out)
		}
		if !strings.Contains(out, "path=sos.wav") {
			t.Errorf("verbose=%v: info record missing\n%s", tt.verbose, out)
		}
		if !logger.Enabled(context.Background(), slog.LevelInfo) {
			t.Errorf("verbose=%v: info should always be enabled", tt.verbose)
		}
	}
}
