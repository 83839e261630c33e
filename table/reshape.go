package table

import (
	"fmt"
	"slices"
	"strconv"
)

// Select returns a table with the named columns in the given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.Index(c)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, c)
		}
	}
	return t.pick(idx), nil
}

func (t *Table) pick(idx []int) *Table {
	out := &Table{
		Columns: make([]string, len(idx)),
		Rows:    make([][]string, len(t.Rows)),
	}
	for i, j := range idx {
		out.Columns[i] = t.Columns[j]
	}
	for r, row := range t.Rows {
		cells := make([]string, len(idx))
		for i, j := range idx {
			cells[i] = row[j]
		}
		out.Rows[r] = cells
	}
	return out
}

// SplitBy groups columns by the label assign gives them, keeping column
// order within each group. Columns without a label are dropped.
func (t *Table) SplitBy(assign map[string]string) map[string]*Table {
	groups := make(map[string][]int)
	for i, c := range t.Columns {
		if label, ok := assign[c]; ok {
			groups[label] = append(groups[label], i)
		}
	}
	out := make(map[string]*Table, len(groups))
	for label, idx := range groups {
		out[label] = t.pick(idx)
	}
	return out
}

// ConcatColumns places tables side by side. All tables must have the same
// number of rows.
func ConcatColumns(tables ...*Table) (*Table, error) {
	var parts []*Table
	for _, t := range tables {
		if t != nil {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return nil, ErrEmpty
	}

	n := parts[0].Len()
	out := &Table{Rows: make([][]string, n)}
	for _, t := range parts {
		if t.Len() != n {
			return nil, fmt.Errorf("%w: %d rows vs %d rows", ErrShapeMismatch, t.Len(), n)
		}
		out.Columns = append(out.Columns, t.Columns...)
		for r := range n {
			out.Rows[r] = append(out.Rows[r], t.Rows[r]...)
		}
	}
	return out, nil
}

// ConcatRows stacks tables vertically. Columns are aligned by name in
// first-seen order; cells for columns a table lacks are Missing.
func ConcatRows(tables ...*Table) (*Table, error) {
	var cols []string
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.Columns {
			if !slices.Contains(cols, c) {
				cols = append(cols, c)
			}
		}
	}
	if len(cols) == 0 {
		return nil, ErrEmpty
	}

	out := &Table{Columns: cols}
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, row := range t.Rows {
			cells := make([]string, len(cols))
			for i, c := range cols {
				if j := t.Index(c); j >= 0 {
					cells[i] = row[j]
				} else {
					cells[i] = Missing
				}
			}
			out.Rows = append(out.Rows, cells)
		}
	}
	return out, nil
}

// Rename returns a copy with columns renamed by m. Unmapped columns keep
// their names.
func (t *Table) Rename(m map[string]string) *Table {
	out := t.Clone()
	for i, c := range out.Columns {
		if to, ok := m[c]; ok {
			out.Columns[i] = to
		}
	}
	return out
}

// DedupColumns returns a copy where repeated headers get a numeric suffix:
// "Mean", "Mean" becomes "Mean", "Mean_2". Blank headers become "Unnamed_N".
func (t *Table) DedupColumns() *Table {
	out := t.Clone()
	seen := make(map[string]int, len(out.Columns))
	taken := make(map[string]bool, len(out.Columns))
	for _, c := range out.Columns {
		taken[c] = true
	}
	for i, c := range out.Columns {
		if c == "" {
			c = "Unnamed_" + strconv.Itoa(i)
		}
		seen[c]++
		name := c
		for n := seen[c]; n > 1; n++ {
			name = c + "_" + strconv.Itoa(n)
			if !taken[name] {
				seen[c] = n
				break
			}
		}
		taken[name] = true
		out.Columns[i] = name
	}
	return out
}

// SelectRows returns the rows at the given positions.
func (t *Table) SelectRows(rows ...int) (*Table, error) {
	out := &Table{Columns: slices.Clone(t.Columns)}
	for _, r := range rows {
		if r < 0 || r >= len(t.Rows) {
			return nil, fmt.Errorf("%w: row %d of %d", ErrShapeMismatch, r, len(t.Rows))
		}
		out.Rows = append(out.Rows, slices.Clone(t.Rows[r]))
	}
	return out, nil
}
