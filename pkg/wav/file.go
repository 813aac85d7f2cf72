package wav

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gigurra/dotdash/pkg/morseerr"
)

const Extension = ".wav"

// WithExtension appends ".wav" to path unless it already ends with it (case-insensitively).
func WithExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// SaveFile writes container to path, adding the .wav extension if missing and
// creating parent directories. It returns the path actually written.
func SaveFile(path string, container []byte) (string, error) {
	if path == "" {
		return "", morseerr.InvalidArgument("empty output path")
	}
	path = WithExtension(path)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", morseerr.IOFailure(err, "create %s", dir)
		}
	}
	if err := os.WriteFile(path, container, 0644); err != nil {
		return "", morseerr.IOFailure(err, "write %s", path)
	}
	return path, nil
}

// LoadFile reads a wav file and validates its header.
func LoadFile(path string) (Header, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Header{}, nil, morseerr.IOFailure(err, "read %s", path)
	}
	h, err := ParseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}
	return h, data, nil
}
