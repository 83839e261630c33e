package table

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// MatchColumns maps each wanted name to an existing column. An exact match
// (ignoring case and surrounding space) wins; otherwise the best fuzzy match
// among the still unclaimed columns is taken, trying the wanted name as a
// pattern over the columns and then each column as a pattern over the
// wanted name. Each column is claimed at most once. Names without a match
// are absent from the result.
func (t *Table) MatchColumns(wanted []string) map[string]string {
	idx := t.matchIndexes(wanted)
	out := make(map[string]string, len(idx))
	for w, i := range idx {
		out[w] = t.Columns[i]
	}
	return out
}

func (t *Table) matchIndexes(wanted []string) map[string]int {
	out := make(map[string]int, len(wanted))
	claimed := make(map[int]bool, len(t.Columns))

	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

	for _, w := range wanted {
		for i, c := range t.Columns {
			if !claimed[i] && norm(c) == norm(w) {
				out[w] = i
				claimed[i] = true
				break
			}
		}
	}

	for _, w := range wanted {
		if _, ok := out[w]; ok {
			continue
		}

		var free []string
		var freeIdx []int
		for i, c := range t.Columns {
			if !claimed[i] {
				free = append(free, norm(c))
				freeIdx = append(freeIdx, i)
			}
		}
		if len(free) == 0 {
			break
		}

		if matches := fuzzy.Find(norm(w), free); len(matches) > 0 {
			i := freeIdx[matches[0].Index]
			out[w] = i
			claimed[i] = true
			continue
		}

		best, bestScore := -1, 0
		for k, c := range free {
			if c == "" {
				continue
			}
			if m := fuzzy.Find(c, []string{norm(w)}); len(m) > 0 && (best < 0 || m[0].Score > bestScore) {
				best, bestScore = k, m[0].Score
			}
		}
		if best >= 0 {
			i := freeIdx[best]
			out[w] = i
			claimed[i] = true
		}
	}
	return out
}

// Conform reshapes the table to the published column list: matched columns
// are renamed and reordered, unmatched published columns are filled with
// Missing, and columns that match nothing are dropped.
func (t *Table) Conform(published []string) *Table {
	match := t.matchIndexes(published)
	out := &Table{
		Columns: append([]string(nil), published...),
		Rows:    make([][]string, len(t.Rows)),
	}
	idx := make([]int, len(published))
	for i, p := range published {
		idx[i] = -1
		if j, ok := match[p]; ok {
			idx[i] = j
		}
	}
	for r, row := range t.Rows {
		cells := make([]string, len(published))
		for i, j := range idx {
			if j >= 0 {
				cells[i] = row[j]
			} else {
				cells[i] = Missing
			}
		}
		out.Rows[r] = cells
	}
	return out
}
