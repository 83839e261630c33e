package pipeline

import (
	"fmt"
	"strings"

	"github.com/spetersoncode/pkextract/table"
	"github.com/spetersoncode/pkextract/workflow"
)

const curatorSystem = "You are a careful pharmacology data curator. " +
	"You read tables from published papers and report exactly what they contain. " +
	"Never invent values; use N/A for anything the table does not report."

const peCuratorSystem = "You are a careful pharmacoepidemiology data curator. " +
	"You read tables from published studies and report the study design facts they contain. " +
	"Never invent facts."

// sourceContext renders the caption, table and footnote of the source.
func sourceContext(s *workflow.State, t *table.Table) string {
	return framed(s, t.Markdown())
}

// numberedSource is sourceContext with a leading row index column.
func numberedSource(s *workflow.State, t *table.Table) string {
	return framed(s, t.NumberedMarkdown())
}

func framed(s *workflow.State, grid string) string {
	var b strings.Builder
	if caption, _ := workflow.Get(s, KeyCaption); caption != "" {
		fmt.Fprintf(&b, "Caption: %s\n\n", caption)
	}
	b.WriteString(grid)
	if footnote, _ := workflow.Get(s, KeyFootnote); footnote != "" {
		fmt.Fprintf(&b, "\nFootnote: %s\n", footnote)
	}
	return b.String()
}

func categoryPrompt(s *workflow.State) (workflow.Prompt, error) {
	src, err := workflow.Require(s, KeySourceTable)
	if err != nil {
		return workflow.Prompt{}, err
	}
	return workflow.Prompt{
		System: curatorSystem,
		Instruction: fmt.Sprintf(`Categorize every column of this pharmacokinetic table.

%s
Categories:
- %s: the drug the row reports on
- %s: the measured substance, e.g. a metabolite
- %s: the sampled matrix, e.g. plasma or urine
- %s: the subject group, e.g. age band or dosing regimen
- %s: the PK parameter, e.g. Cmax or AUC
- %s: the unit of the parameter
- %s: a reported value
- %s: anything else

Columns: %s`,
			sourceContext(s, src),
			CategoryDrugName, CategoryAnalyte, CategorySpecimen, CategoryPopulation,
			CategoryParameterType, CategoryParameterUnit, CategoryParameterValue, CategoryUncategorized,
			quoteAll(src.Columns)),
	}, nil
}

func drugPrompt(s *workflow.State) (workflow.Prompt, error) {
	src, err := workflow.Require(s, KeySourceTable)
	if err != nil {
		return workflow.Prompt{}, err
	}
	return workflow.Prompt{
		System: curatorSystem,
		Instruction: fmt.Sprintf(`List every distinct drug this table reports on as [drug name, analyte, specimen].
The analyte is the drug itself unless a metabolite is reported.

%s`, sourceContext(s, src)),
	}, nil
}

func matchPrompt(s *workflow.State) (workflow.Prompt, error) {
	src, err := workflow.Require(s, KeySourceTable)
	if err != nil {
		return workflow.Prompt{}, err
	}
	drugs, err := workflow.Require(s, KeyDrugList)
	if err != nil {
		return workflow.Prompt{}, err
	}
	return workflow.Prompt{
		System: curatorSystem,
		Instruction: fmt.Sprintf(`For each of the %d rows below, give the index of the drug list entry it reports on.

Drug list:
%s
%s`, src.Len(), numberedList(drugs), numberedSource(s, src)),
	}, nil
}

func unitPrompt(s *workflow.State) (workflow.Prompt, error) {
	rows, err := workflow.Require(s, KeyMeasurementTable)
	if err != nil {
		return workflow.Prompt{}, err
	}
	params, err := workflow.Require(s, KeyParameterTable)
	if err != nil {
		return workflow.Prompt{}, err
	}

	hint := ""
	if params.Width() > 0 {
		hint = fmt.Sprintf("\nColumns describing the parameter: %s\n", quoteAll(params.Columns))
	}
	if rows != workflow.MustGet(s, KeySourceTable) {
		hint += "Each row is one measurement; its parameter type column holds the header it was reported under.\n"
	}
	return workflow.Prompt{
		System: curatorSystem,
		Instruction: fmt.Sprintf(`For each of the %d rows below, give [parameter type, parameter unit].
Read the unit from the header, the caption or the footnote when the row does not state it.
%s
%s`, rows.Len(), hint, numberedSource(s, rows)),
	}, nil
}

func valuePrompt(s *workflow.State) (workflow.Prompt, error) {
	src, err := workflow.Require(s, KeySourceTable)
	if err != nil {
		return workflow.Prompt{}, err
	}
	measurements, err := workflow.Require(s, KeyMeasurementTable)
	if err != nil {
		return workflow.Prompt{}, err
	}
	values, err := workflow.Require(s, KeyValueTable)
	if err != nil {
		return workflow.Prompt{}, err
	}
	units, err := workflow.Require(s, KeyUnitTable)
	if err != nil {
		return workflow.Prompt{}, err
	}
	return workflow.Prompt{
		System: curatorSystem,
		Instruction: fmt.Sprintf(`For each of the %d rows below, give [%s].
The statistics type names the main value, e.g. mean or median. The variation value is
its SD, SE or CV. Interval low and high bound a confidence interval or range.

Source table:
%s
Value columns:
%s
Parameter of each row:
%s`, measurements.Len(), strings.Join(ValueColumns, ", "),
			sourceContext(s, src), values.NumberedMarkdown(), units.NumberedMarkdown()),
	}, nil
}

func studyInfoPrompt(s *workflow.State) (workflow.Prompt, error) {
	src, err := workflow.Require(s, KeySourceTable)
	if err != nil {
		return workflow.Prompt{}, err
	}
	return workflow.Prompt{
		System: peCuratorSystem,
		Instruction: fmt.Sprintf(`Report the study design facts of this table: design, population, country,
follow-up, exposure and outcome where stated. Say whether the study is randomized and give
the total sample size.

%s`, sourceContext(s, src)),
	}, nil
}

func numberedList(rows [][]string) string {
	var b strings.Builder
	for i, r := range rows {
		fmt.Fprintf(&b, "%d. %s\n", i, strings.Join(r, ", "))
	}
	return b.String()
}
