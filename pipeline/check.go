package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spetersoncode/pkextract/agent"
	"github.com/spetersoncode/pkextract/table"
)

// checkCategories resolves one category per column. Headers are matched
// exactly, then case-insensitively.
func checkCategories(columns []string, got map[string]string) (map[string]string, error) {
	out, missing, invalid := resolveCategories(columns, got)
	if len(missing) == 0 && len(invalid) == 0 {
		return out, nil
	}

	var problems []string
	if len(missing) > 0 {
		problems = append(problems, "no category for "+quoteAll(missing))
	}
	if len(invalid) > 0 {
		problems = append(problems, "invalid categories "+strings.Join(invalid, ", "))
	}
	return nil, agent.Retryf("%s. Give every column exactly one of: %s",
		strings.Join(problems, "; "), strings.Join(Categories, ", "))
}

// fixCategories keeps every valid category and files the rest under
// Uncategorized.
func fixCategories(columns []string, got map[string]string) map[string]string {
	out, _, _ := resolveCategories(columns, got)
	for _, c := range columns {
		if _, ok := out[c]; !ok {
			out[c] = CategoryUncategorized
		}
	}
	return out
}

func resolveCategories(columns []string, got map[string]string) (out map[string]string, missing, invalid []string) {
	folded := make(map[string]string, len(got))
	for k, v := range got {
		folded[foldKey(k)] = v
	}

	out = make(map[string]string, len(columns))
	for _, col := range columns {
		raw, ok := got[col]
		if !ok {
			raw, ok = folded[foldKey(col)]
		}
		if !ok {
			missing = append(missing, col)
			continue
		}
		cat, ok := canonicalCategory(raw)
		if !ok {
			invalid = append(invalid, fmt.Sprintf("%q for %q", raw, col))
			continue
		}
		out[col] = cat
	}
	return out, missing, invalid
}

func foldKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// checkDrugs validates the drug list and removes duplicate entries.
func checkDrugs(drugs [][]string) ([][]string, error) {
	if len(drugs) == 0 {
		return nil, agent.Retryf("the drug list is empty; list every drug the table reports on")
	}

	out := make([][]string, 0, len(drugs))
	seen := make(map[string]bool, len(drugs))
	for i, d := range drugs {
		if len(d) != len(DrugColumns) {
			return nil, agent.Retryf("drug entry %d has %d fields; every entry must be [%s]",
				i, len(d), strings.Join(DrugColumns, ", "))
		}
		entry := canonicalRow(d, len(DrugColumns))
		key := foldKey(strings.Join(entry, "\x00"))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, entry)
	}
	return out, nil
}

// checkMatches parses one drug index per row.
func checkMatches(matches []string, rows, drugs int) ([]int, error) {
	if len(matches) != rows {
		return nil, agent.Retryf("got %d matches for %d rows; give exactly one drug index per row, in row order",
			len(matches), rows)
	}
	out := make([]int, rows)
	for i, m := range matches {
		n, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil || n < 0 || n >= drugs {
			return nil, agent.Retryf("row %d: %q is not a drug index between 0 and %d", i, m, drugs-1)
		}
		out[i] = n
	}
	return out, nil
}

// fixMatches pads or truncates matches to one per row. Rows without a usable
// index repeat the previous row's drug.
func fixMatches(matches []string, rows, drugs int) []int {
	out := make([]int, rows)
	last := 0
	for i := range out {
		if i < len(matches) {
			if n, err := strconv.Atoi(strings.TrimSpace(matches[i])); err == nil && n >= 0 && n < drugs {
				last = n
			}
		}
		out[i] = last
	}
	return out
}

// checkMatrix requires exactly one entry of width cells per row.
func checkMatrix(m [][]string, rows, width int, what string) ([][]string, error) {
	if len(m) != rows {
		return nil, agent.Retryf("got %d %s for %d rows; give exactly one per row, in row order", len(m), what, rows)
	}
	for i, r := range m {
		if len(r) != width {
			return nil, agent.Retryf("row %d has %d fields; every entry must have %d", i, len(r), width)
		}
	}
	return fitMatrix(m, rows, width), nil
}

// fitMatrix pads or truncates m to rows entries of width cells.
func fitMatrix(m [][]string, rows, width int) [][]string {
	out := make([][]string, rows)
	for i := range out {
		var r []string
		if i < len(m) {
			r = m[i]
		}
		out[i] = canonicalRow(r, width)
	}
	return out
}

func canonicalRow(r []string, width int) []string {
	out := make([]string, width)
	for i := range out {
		if i < len(r) {
			out[i] = table.CanonicalMissing(r[i])
		} else {
			out[i] = table.Missing
		}
	}
	return out
}

// checkStudyInfo validates the study facts of a PE table.
func checkStudyInfo(a *studyInfoAnswer) (*StudyInfo, error) {
	fields := make(map[string]string, len(a.Fields))
	for k, v := range a.Fields {
		if k = strings.TrimSpace(k); k != "" {
			fields[k] = table.CanonicalMissing(v)
		}
	}
	if len(fields) == 0 {
		return nil, agent.Retryf("no study facts were reported; report at least the study design")
	}
	if a.SampleSize < 0 {
		return nil, agent.Retryf("sample size %d is negative; use 0 when it is not reported", a.SampleSize)
	}
	return &StudyInfo{
		Fields:     fields,
		Randomized: a.Randomized,
		SampleSize: a.SampleSize,
	}, nil
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = strconv.Quote(s)
	}
	return strings.Join(q, ", ")
}
