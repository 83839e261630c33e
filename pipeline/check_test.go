package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/pkextract/agent"
)

func TestCheckCategories(t *testing.T) {
	cols := []string{"Drug", "Cmax", "Unit"}

	tests := []struct {
		name    string
		got     map[string]string
		want    map[string]string
		wantMsg string
	}{
		{
			name: "exact",
			got:  map[string]string{"Drug": "Drug name", "Cmax": "Parameter value", "Unit": "Parameter unit"},
			want: map[string]string{"Drug": "Drug name", "Cmax": "Parameter value", "Unit": "Parameter unit"},
		},
		{
			name: "case and whitespace folded",
			got:  map[string]string{" drug ": "drug NAME", "CMAX": "parameter value", "Unit": " Parameter unit"},
			want: map[string]string{"Drug": "Drug name", "Cmax": "Parameter value", "Unit": "Parameter unit"},
		},
		{
			name:    "missing column",
			got:     map[string]string{"Drug": "Drug name", "Cmax": "Parameter value"},
			wantMsg: `no category for "Unit"`,
		},
		{
			name:    "invalid category",
			got:     map[string]string{"Drug": "Drug name", "Cmax": "Value", "Unit": "Parameter unit"},
			wantMsg: `invalid categories "Value" for "Cmax"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkCategories(cols, tt.got)
			if tt.wantMsg != "" {
				require.Error(t, err)
				assert.True(t, agent.IsRetryError(err))
				assert.Contains(t, err.Error(), tt.wantMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixCategories(t *testing.T) {
	got := fixCategories([]string{"Drug", "Cmax", "Unit"}, map[string]string{
		"Drug": "Drug name",
		"Cmax": "Value",
	})
	assert.Equal(t, map[string]string{
		"Drug": CategoryDrugName,
		"Cmax": CategoryUncategorized,
		"Unit": CategoryUncategorized,
	}, got)
}

func TestCheckDrugs(t *testing.T) {
	t.Run("dedupes and canonicalizes", func(t *testing.T) {
		got, err := checkDrugs([][]string{
			{"Midazolam", "Midazolam", "plasma"},
			{"midazolam", "MIDAZOLAM", "Plasma"},
			{"Ketamine", "Norketamine", "unknown"},
		})
		require.NoError(t, err)
		assert.Equal(t, [][]string{
			{"Midazolam", "Midazolam", "plasma"},
			{"Ketamine", "Norketamine", "N/A"},
		}, got)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := checkDrugs(nil)
		assert.True(t, agent.IsRetryError(err))
	})

	t.Run("wrong shape", func(t *testing.T) {
		_, err := checkDrugs([][]string{{"Midazolam", "Plasma"}})
		assert.True(t, agent.IsRetryError(err))
		assert.Contains(t, err.Error(), "drug entry 0 has 2 fields")
	})
}

func TestCheckMatches(t *testing.T) {
	got, err := checkMatches([]string{"0", " 1", "1"}, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 1}, got)

	for name, matches := range map[string][]string{
		"too few":      {"0", "1"},
		"too many":     {"0", "1", "1", "0"},
		"out of range": {"0", "2", "1"},
		"negative":     {"0", "-1", "1"},
		"not a number": {"0", "Ketamine", "1"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := checkMatches(matches, 3, 2)
			assert.True(t, agent.IsRetryError(err))
		})
	}
}

func TestFixMatches(t *testing.T) {
	assert.Equal(t, []int{1, 1, 0, 0}, fixMatches([]string{"1", "x", "0"}, 4, 2))
	assert.Equal(t, []int{0, 1}, fixMatches([]string{"0", "1", "1"}, 2, 2))
	assert.Equal(t, []int{0, 0}, fixMatches(nil, 2, 2))
}

func TestCheckMatrix(t *testing.T) {
	got, err := checkMatrix([][]string{{"Cmax", " ng/mL "}, {"AUC", "-"}}, 2, 2, "units")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Cmax", "ng/mL"}, {"AUC", "N/A"}}, got)

	_, err = checkMatrix([][]string{{"Cmax", "ng/mL"}}, 2, 2, "units")
	assert.True(t, agent.IsRetryError(err))
	assert.Contains(t, err.Error(), "got 1 units for 2 rows")

	_, err = checkMatrix([][]string{{"Cmax"}, {"AUC", "h"}}, 2, 2, "units")
	assert.True(t, agent.IsRetryError(err))
	assert.Contains(t, err.Error(), "row 0 has 1 fields")
}

func TestFitMatrix(t *testing.T) {
	got := fitMatrix([][]string{{"a", "b", "c"}, {"d"}}, 3, 2)
	assert.Equal(t, [][]string{{"a", "b"}, {"d", "N/A"}, {"N/A", "N/A"}}, got)
}

func TestCheckStudyInfo(t *testing.T) {
	si, err := checkStudyInfo(&studyInfoAnswer{
		Fields:     map[string]string{" Design ": "Cohort", "": "dropped", "Country": "none"},
		Randomized: true,
		SampleSize: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Design": "Cohort", "Country": "N/A"}, si.Fields)
	assert.True(t, si.Randomized)
	assert.Equal(t, 42, si.SampleSize)

	_, err = checkStudyInfo(&studyInfoAnswer{})
	assert.True(t, agent.IsRetryError(err))

	_, err = checkStudyInfo(&studyInfoAnswer{Fields: map[string]string{"Design": "Cohort"}, SampleSize: -1})
	assert.True(t, agent.IsRetryError(err))
}

func TestStudyInfo_Table(t *testing.T) {
	si := &StudyInfo{Fields: map[string]string{"Design": "RCT"}, Randomized: true}
	assert.Equal(t, [][]string{
		{"Design", "RCT"},
		{"Randomized", "Yes"},
		{"Sample size", "N/A"},
	}, si.Table().Rows)
}
