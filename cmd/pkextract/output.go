package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/spetersoncode/pkextract/pipeline"
	"github.com/spetersoncode/pkextract/table"
)

// CombinedFile holds every extracted row, prefixed by its table id.
const CombinedFile = "combined.csv"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// fileName maps a table id to a CSV file name.
func fileName(id string) string {
	return unsafeChars.ReplaceAllString(id, "_") + ".csv"
}

// writeOutputs writes one CSV per extracted table plus the combined CSV and
// returns the paths written.
func writeOutputs(dir string, outputs []*pipeline.Output) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	var paths []string
	var tagged []*table.Table
	for _, out := range outputs {
		path := filepath.Join(dir, fileName(out.ID))
		if err := writeCSV(path, out.Table); err != nil {
			return paths, err
		}
		paths = append(paths, path)

		ids := make([][]string, out.Table.Len())
		for i := range ids {
			ids[i] = []string{out.ID}
		}
		t, err := table.ConcatColumns(table.New([]string{"Table ID"}, ids), out.Table)
		if err != nil {
			return paths, err
		}
		tagged = append(tagged, t)
	}
	if len(tagged) == 0 {
		return paths, nil
	}

	combined, err := table.ConcatRows(tagged...)
	if err != nil {
		return paths, err
	}
	path := filepath.Join(dir, CombinedFile)
	if err := writeCSV(path, combined); err != nil {
		return paths, err
	}
	return append(paths, path), nil
}

func writeCSV(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
