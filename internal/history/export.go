// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"
)

// ExportEntry is the YAML form of a recorded scan. Minimum is omitted for
// scans that found no labelled line.
type ExportEntry struct {
	ID        int64    `yaml:"id"`
	ScannedAt string   `yaml:"scanned_at"`
	Path      string   `yaml:"path"`
	Minimum   *float64 `yaml:"minimum,omitempty"`
	Matches   int      `yaml:"matches"`
	Lines     int      `yaml:"lines"`
	Line      int      `yaml:"line,omitempty"`
	Run       int      `yaml:"run,omitempty"`
	Settings  []string `yaml:"settings,omitempty"`
}

// ExportYAML writes entries to w as a YAML sequence. Non-finite minima use
// the YAML spellings .nan, .inf and -.inf.
func ExportYAML(w io.Writer, entries []Entry) error {
	out := make([]ExportEntry, len(entries))
	for i, e := range entries {
		out[i] = ExportEntry{
			ID:        e.ID,
			ScannedAt: e.ScannedAt.UTC().Format(time.RFC3339),
			Path:      e.Path,
			Matches:   e.Matches,
			Lines:     e.Lines,
			Line:      e.Line,
			Run:       e.Run,
			Settings:  e.Settings,
		}
		if e.Found {
			v := e.Value
			out[i].Minimum = &v
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}
