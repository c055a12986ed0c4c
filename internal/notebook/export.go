package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/noe/internal/store"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type exportedNote struct {
	Number int    `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
	Done   bool   `json:"done" yaml:"done"`
}

// Export writes notes sorted by number in the given format. Text is written
// as stored, escapes included.
func Export(w io.Writer, notes []store.Note, format string) error {
	sorted := slices.SortedFunc(slices.Values(notes), func(a, b store.Note) int {
		return a.Number - b.Number
	})

	out := make([]exportedNote, 0, len(sorted))
	for _, n := range sorted {
		out = append(out, exportedNote(n))
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(out)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		err := enc.Encode(out)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownFormat, format, FormatJSON, FormatYAML)
	}

	return nil
}

// ExportFile encodes notes and atomically replaces path with the result.
func ExportFile(path string, notes []store.Note, format string) error {
	var buf bytes.Buffer

	err := Export(&buf, notes, format)
	if err != nil {
		return err
	}

	err = atomic.WriteFile(path, &buf)
	if err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	return nil
}
