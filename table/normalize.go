package table

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var missingTokens = map[string]bool{
	"":              true,
	"unknown":       true,
	"n/a":           true,
	"na":            true,
	"nan":           true,
	"none":          true,
	"null":          true,
	"-":             true,
	"–":             true,
	"—":             true,
	"nr":            true,
	"not reported":  true,
	"not available": true,
}

// IsMissing reports whether a cell holds no value.
func IsMissing(s string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(s))]
}

// CanonicalMissing returns Missing for absent values and the trimmed cell
// otherwise.
func CanonicalMissing(s string) string {
	if IsMissing(s) {
		return Missing
	}
	return strings.TrimSpace(s)
}

var rangePattern = regexp.MustCompile(`^\(?\s*(-?\d+(?:\.\d+)?)\s*(?:-|–|—|~|to)\s*(-?\d+(?:\.\d+)?)\s*\)?$`)

// RepairRange rewrites a numeric range as "low-high": "1.2 – 3.4",
// "1.2 to 3.4" and "3.4-1.2" all become "1.2-3.4". Other cells are
// returned unchanged.
func RepairRange(s string) string {
	m := rangePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return s
	}
	lo, hi := m[1], m[2]
	a, errA := strconv.ParseFloat(lo, 64)
	b, errB := strconv.ParseFloat(hi, 64)
	if errA != nil || errB != nil {
		return s
	}
	if a > b {
		lo, hi = hi, lo
	}
	return lo + "-" + hi
}

// HasDigit reports whether s contains a decimal digit.
func HasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// NormalizeOptions selects the rules Normalize applies.
type NormalizeOptions struct {
	// RangeColumns are repaired with RepairRange. Empty means none.
	RangeColumns []string

	// DigitColumns are checked by the digit predicate: a row is kept only
	// if one of them contains a digit. Empty disables the predicate.
	DigitColumns []string

	// DropSubsumed removes rows covered by another row.
	DropSubsumed bool
}

// Normalize applies the cleanup battery in order: missing-value
// canonicalization on every cell, range repair, the digit predicate and
// subsumed-row removal. The input table is not modified.
func Normalize(t *Table, opts NormalizeOptions) (*Table, error) {
	out := t.Clone()
	for _, row := range out.Rows {
		for i, c := range row {
			row[i] = CanonicalMissing(c)
		}
	}

	rangeIdx, err := out.indexes(opts.RangeColumns)
	if err != nil {
		return nil, err
	}
	for _, row := range out.Rows {
		for _, i := range rangeIdx {
			row[i] = RepairRange(row[i])
		}
	}

	digitIdx, err := out.indexes(opts.DigitColumns)
	if err != nil {
		return nil, err
	}
	if len(digitIdx) > 0 {
		kept := out.Rows[:0]
		for _, row := range out.Rows {
			for _, i := range digitIdx {
				if HasDigit(row[i]) {
					kept = append(kept, row)
					break
				}
			}
		}
		out.Rows = kept
	}

	if opts.DropSubsumed {
		out.Rows = dropSubsumed(out.Rows)
	}
	return out, nil
}

func (t *Table) indexes(cols []string) ([]int, error) {
	idx := make([]int, 0, len(cols))
	for _, c := range cols {
		i := t.Index(c)
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, c)
		}
		idx = append(idx, i)
	}
	return idx, nil
}

// subsumes reports whether every known cell of a equals the same cell of b.
func subsumes(b, a []string) bool {
	for i := range a {
		if a[i] != Missing && a[i] != b[i] {
			return false
		}
	}
	return true
}

// dropSubsumed removes rows whose known cells all appear in another row.
// Of two identical rows the first is kept.
func dropSubsumed(rows [][]string) [][]string {
	var out [][]string
	for i, a := range rows {
		drop := false
		for j, b := range rows {
			if i == j || !subsumes(b, a) {
				continue
			}
			if !subsumes(a, b) || j < i {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, a)
		}
	}
	return out
}
