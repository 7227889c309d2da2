// Package cache persists full-stream transcripts on disk so repeated pulls
// of the same stream skip the network.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"

	"logpull/internal/model"
)

// SafeName maps a group or stream name onto a filesystem-safe path segment:
// letters and digits pass through, everything else becomes an underscore.
func SafeName(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			out = append(out, c)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}

// Cache stores one JSON transcript file per stream under Dir.
type Cache struct {
	Dir string
}

// DefaultDir is the cache location used when none is configured.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "logpull-cache")
}

func (c Cache) path(stream model.StreamHandle) string {
	return filepath.Join(c.Dir, SafeName(stream.Group), SafeName(stream.Stream))
}

// Load returns the cached transcript for the stream, if one exists. A
// missing file is not an error.
func (c Cache) Load(stream model.StreamHandle) (model.Transcript, bool, error) {
	data, err := os.ReadFile(c.path(stream))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var t model.Transcript
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// Store writes the transcript for the stream, creating directories as
// needed.
func (c Cache) Store(stream model.StreamHandle, t model.Transcript) error {
	p := c.path(stream)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}
