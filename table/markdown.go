package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ParseMarkdown reads a pipe table. Lines that do not start with "|" are
// ignored, as is the separator row under the header. Escaped pipes (\|)
// stay inside their cell.
func ParseMarkdown(s string) (*Table, error) {
	var header []string
	var rows [][]string

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "|") {
			continue
		}
		cells := splitRow(line)
		if header == nil {
			header = cells
			continue
		}
		if isSeparator(cells) {
			continue
		}
		rows = append(rows, cells)
	}

	if len(header) == 0 {
		return nil, ErrEmpty
	}
	return New(header, rows), nil
}

func splitRow(line string) []string {
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = strings.TrimSuffix(line, "|")
	}

	var cells []string
	var cur strings.Builder
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(line[i])
		}
	}
	return append(cells, strings.TrimSpace(cur.String()))
}

func isSeparator(cells []string) bool {
	for _, c := range cells {
		c = strings.Trim(c, ":")
		if c == "" || strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}

// Markdown renders the table as a pipe table.
func (t *Table) Markdown() string {
	var b strings.Builder
	writeRow(&b, t.Columns)
	sep := make([]string, len(t.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	writeRow(&b, sep)
	for _, r := range t.Rows {
		writeRow(&b, r)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(c, "|", `\|`), "\n", " "))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

// NumberedMarkdown renders the table with a leading 0-based "row" column,
// which lets a model refer to rows by index.
func (t *Table) NumberedMarkdown() string {
	cols := append([]string{"row"}, t.Columns...)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = append([]string{fmt.Sprint(i)}, r...)
	}
	return New(cols, rows).Markdown()
}

// WriteCSV writes the header and rows as CSV.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}
