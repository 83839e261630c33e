package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spetersoncode/pkextract/agent"
	"github.com/spetersoncode/pkextract/table"
	"github.com/spetersoncode/pkextract/workflow"
)

// Step names of the PK summary workflow.
const (
	StepColumnCategorization = "column_categorization"
	StepTableSplit           = "table_split"
	StepDrugInfo             = "drug_info"
	StepDrugMatchingAuto     = "drug_matching_auto"
	StepDrugMatchingAgent    = "drug_matching_agent"
	StepUnitExtraction       = "unit_extraction"
	StepValueExtraction      = "value_extraction"
	StepAssembly             = "assembly"
	StepRowCleanup           = "row_cleanup"
)

// ErrNoValueColumn is returned when no column of the source table holds
// parameter values.
var ErrNoValueColumn = errors.New("pipeline: no parameter value column")

// singleDrug routes tables reporting on one drug to drug_matching_auto.
const singleDrug = "len(drug_list) == 1"

// PKSummaryGraph builds the PK summary workflow. Agent steps run on ag; a nil
// ag makes them use the state's completer.
func PKSummaryGraph(ag *agent.Agent) *workflow.Graph {
	return workflow.NewGraph("pk_summary").
		AddNode(columnCategorizationStep(ag)).
		AddNode(workflow.NewFuncStep(StepTableSplit, "Splitting the table by column category", splitTable)).
		AddNode(drugInfoStep(ag)).
		AddNode(workflow.NewFuncStep(StepDrugMatchingAuto, "Assigning the only drug to every row", matchSingleDrug)).
		AddNode(drugMatchingStep(ag)).
		AddNode(unitExtractionStep(ag)).
		AddNode(valueExtractionStep(ag)).
		AddNode(workflow.NewFuncStep(StepAssembly, "Assembling the combined table", assemble)).
		AddNode(workflow.NewFuncStep(StepRowCleanup, "Cleaning up rows", cleanupRows)).
		SetEntry(StepColumnCategorization).
		AddEdge(StepColumnCategorization, StepTableSplit).
		AddEdge(StepTableSplit, StepDrugInfo).
		AddConditionalEdges(StepDrugInfo,
			workflow.MustExprBranch(singleDrug, StepDrugMatchingAuto, StepDrugMatchingAgent),
			StepDrugMatchingAuto, StepDrugMatchingAgent).
		AddEdge(StepDrugMatchingAuto, StepUnitExtraction).
		AddEdge(StepDrugMatchingAgent, StepUnitExtraction).
		AddEdge(StepUnitExtraction, StepValueExtraction).
		AddEdge(StepValueExtraction, StepAssembly).
		AddEdge(StepAssembly, StepRowCleanup).
		SetFinish(StepRowCleanup)
}

func columnCategorizationStep(ag *agent.Agent) workflow.Step {
	return workflow.NewAgentStep(StepColumnCategorization, "Categorizing table columns",
		workflow.AgentStepConfig[categoryAnswer, map[string]string]{
			Agent:  ag,
			Prompt: categoryPrompt,
			Schema: &categorySchema,
			PostProcess: func(s *workflow.State, a *categoryAnswer) (map[string]string, error) {
				return checkCategories(workflow.MustGet(s, KeySourceTable).Columns, a.Categories)
			},
			TryFix: func(s *workflow.State, a *categoryAnswer) (map[string]string, bool) {
				return fixCategories(workflow.MustGet(s, KeySourceTable).Columns, a.Categories), true
			},
			Apply: func(s *workflow.State, cats map[string]string) error {
				workflow.Set(s, KeyColumnCategories, cats)
				return nil
			},
			Summarize: func(cats map[string]string) string {
				return fmt.Sprintf("%d columns categorized", len(cats))
			},
		})
}

// splitTable writes the drug, population, parameter and value sub-tables.
// A group without columns yields a table with rows but no columns.
//
// A table without a parameter type column but with several value columns
// reports one parameter per column. It is split row-wise into one block per
// value column, with the header as the block's parameter type, so that the
// parameter and value tables hold one row per measurement. Drug and
// population tables keep one row per source row; KeySourceRows maps
// measurements back to them.
func splitTable(_ context.Context, s *workflow.State) (string, error) {
	src, err := workflow.Require(s, KeySourceTable)
	if err != nil {
		return "", err
	}
	cats, err := workflow.Require(s, KeyColumnCategories)
	if err != nil {
		return "", err
	}

	assign := make(map[string]string, len(cats))
	var valueCols []string
	hasType := false
	for _, col := range src.Columns {
		g := splitGroup(cats[col])
		if g == "" {
			continue
		}
		assign[col] = g
		switch cats[col] {
		case CategoryParameterValue:
			valueCols = append(valueCols, col)
		case CategoryParameterType:
			hasType = true
		}
	}
	if len(valueCols) == 0 {
		return "", fmt.Errorf("%w among %s", ErrNoValueColumn, quoteAll(src.Columns))
	}

	parts := src.SplitBy(assign)
	group := func(name string) *table.Table {
		if t, ok := parts[name]; ok {
			return t
		}
		return table.New(nil, make([][]string, src.Len()))
	}

	measurements, rows := src, identityRows(src.Len())
	if !hasType && len(valueCols) > 1 {
		measurements, rows, err = splitByValueColumn(src, assign, valueCols)
		if err != nil {
			return "", err
		}
	}
	byMeasurement := measurements.SplitBy(assign)
	params, ok := byMeasurement[groupParameter]
	if !ok {
		params = table.New(nil, make([][]string, measurements.Len()))
	}

	workflow.Set(s, KeyDrugTable, group(groupDrug))
	workflow.Set(s, KeyPopulationTable, group(groupPopulation))
	workflow.Set(s, KeyParameterTable, params)
	workflow.Set(s, KeyValueTable, byMeasurement[groupValue])
	workflow.Set(s, KeyMeasurementTable, measurements)
	workflow.Set(s, KeySourceRows, rows)

	return fmt.Sprintf("%d drug, %d population, %d parameter and %d value columns; %d measurements",
		group(groupDrug).Width(), group(groupPopulation).Width(),
		params.Width(), byMeasurement[groupValue].Width(), measurements.Len()), nil
}

func identityRows(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return rows
}

// splitByValueColumn stacks one block of rows per value column. Each block
// keeps the categorized non-value columns, renames its value column to
// Parameter value and adds a Parameter type column holding the original
// header. The new columns are registered in assign.
func splitByValueColumn(src *table.Table, assign map[string]string, valueCols []string) (*table.Table, []int, error) {
	var keep []string
	for _, c := range src.Columns {
		if _, ok := assign[c]; ok && !slices.Contains(valueCols, c) {
			keep = append(keep, c)
		}
	}
	typeCol := freeName(keep, CategoryParameterType)
	valueCol := freeName(keep, CategoryParameterValue)
	assign[typeCol] = groupParameter
	assign[valueCol] = groupValue

	blocks := make([]*table.Table, 0, len(valueCols))
	rows := make([]int, 0, src.Len()*len(valueCols))
	for _, vc := range valueCols {
		block, err := src.Select(append(slices.Clone(keep), vc)...)
		if err != nil {
			return nil, nil, err
		}
		block = block.Rename(map[string]string{vc: valueCol})
		header := make([]string, block.Len())
		for i := range header {
			header[i] = vc
		}
		if err := block.AddColumn(typeCol, header); err != nil {
			return nil, nil, err
		}
		blocks = append(blocks, block)
		rows = append(rows, identityRows(src.Len())...)
	}

	stacked, err := table.ConcatRows(blocks...)
	if err != nil {
		return nil, nil, err
	}
	return stacked, rows, nil
}

// freeName returns name, suffixed when it is already taken.
func freeName(taken []string, name string) string {
	out := name
	for n := 2; slices.Contains(taken, out); n++ {
		out = fmt.Sprintf("%s_%d", name, n)
	}
	return out
}

func drugInfoStep(ag *agent.Agent) workflow.Step {
	return workflow.NewAgentStep(StepDrugInfo, "Extracting drug information",
		workflow.AgentStepConfig[drugAnswer, [][]string]{
			Agent:  ag,
			Prompt: drugPrompt,
			Schema: &drugSchema,
			PostProcess: func(_ *workflow.State, a *drugAnswer) ([][]string, error) {
				return checkDrugs(a.Drugs)
			},
			Apply: func(s *workflow.State, drugs [][]string) error {
				workflow.Set(s, KeyDrugList, drugs)
				return nil
			},
			Summarize: func(drugs [][]string) string {
				return fmt.Sprintf("%d drug(s) found", len(drugs))
			},
		})
}

// matchSingleDrug assigns the only drug list entry to every row.
func matchSingleDrug(_ context.Context, s *workflow.State) (string, error) {
	src, err := workflow.Require(s, KeySourceTable)
	if err != nil {
		return "", err
	}
	drugs, err := workflow.Require(s, KeyDrugList)
	if err != nil {
		return "", err
	}
	if len(drugs) != 1 {
		return "", fmt.Errorf("pipeline: %s needs exactly one drug, got %d", StepDrugMatchingAuto, len(drugs))
	}

	rows := make([][]string, src.Len())
	for i := range rows {
		rows[i] = slices.Clone(drugs[0])
	}
	workflow.Set(s, KeyDrugMatching, table.New(DrugColumns, rows))
	return fmt.Sprintf("%s assigned to %d rows", drugs[0][0], len(rows)), nil
}

func drugMatchingStep(ag *agent.Agent) workflow.Step {
	dims := func(s *workflow.State) (rows, drugs int) {
		return workflow.MustGet(s, KeySourceTable).Len(), len(workflow.MustGet(s, KeyDrugList))
	}
	return workflow.NewAgentStep(StepDrugMatchingAgent, "Matching rows to drugs",
		workflow.AgentStepConfig[matchAnswer, []int]{
			Agent:  ag,
			Prompt: matchPrompt,
			Schema: &matchSchema,
			PostProcess: func(s *workflow.State, a *matchAnswer) ([]int, error) {
				rows, drugs := dims(s)
				return checkMatches(a.Matches, rows, drugs)
			},
			TryFix: func(s *workflow.State, a *matchAnswer) ([]int, bool) {
				rows, drugs := dims(s)
				return fixMatches(a.Matches, rows, drugs), true
			},
			Apply: func(s *workflow.State, idx []int) error {
				drugs := workflow.MustGet(s, KeyDrugList)
				rows := make([][]string, len(idx))
				for i, d := range idx {
					rows[i] = slices.Clone(drugs[d])
				}
				workflow.Set(s, KeyDrugMatching, table.New(DrugColumns, rows))
				return nil
			},
			Summarize: func(idx []int) string {
				return fmt.Sprintf("%d rows matched", len(idx))
			},
		})
}

// unitColumns returns the single parameter type and unit columns of the
// parameter table, if the table has exactly one of each.
func unitColumns(s *workflow.State) (typeCol, unitCol string, ok bool) {
	params := workflow.MustGet(s, KeyParameterTable)
	cats := workflow.MustGet(s, KeyColumnCategories)
	var types, units []string
	for _, c := range params.Columns {
		switch cats[c] {
		case CategoryParameterType:
			types = append(types, c)
		case CategoryParameterUnit:
			units = append(units, c)
		}
	}
	if len(types) != 1 || len(units) != 1 {
		return "", "", false
	}
	return types[0], units[0], true
}

func unitExtractionStep(ag *agent.Agent) workflow.Step {
	return workflow.NewAgentStep(StepUnitExtraction, "Extracting parameter types and units",
		workflow.AgentStepConfig[unitAnswer, [][]string]{
			Agent:  ag,
			Prompt: unitPrompt,
			Schema: &unitSchema,
			PreProcess: func(s *workflow.State) bool {
				_, _, ok := unitColumns(s)
				return !ok
			},
			OnSkip: func(s *workflow.State) error {
				typeCol, unitCol, _ := unitColumns(s)
				units, err := workflow.MustGet(s, KeyParameterTable).Select(typeCol, unitCol)
				if err != nil {
					return err
				}
				units = units.Rename(map[string]string{typeCol: CategoryParameterType, unitCol: CategoryParameterUnit})
				workflow.Set(s, KeyUnitTable, table.New(units.Columns, fitMatrix(units.Rows, units.Len(), len(UnitColumns))))
				return nil
			},
			PostProcess: func(s *workflow.State, a *unitAnswer) ([][]string, error) {
				return checkMatrix(a.Units, workflow.MustGet(s, KeyMeasurementTable).Len(), len(UnitColumns), "units")
			},
			TryFix: func(s *workflow.State, a *unitAnswer) ([][]string, bool) {
				return fitMatrix(a.Units, workflow.MustGet(s, KeyMeasurementTable).Len(), len(UnitColumns)), true
			},
			Apply: func(s *workflow.State, rows [][]string) error {
				workflow.Set(s, KeyUnitTable, table.New(UnitColumns, rows))
				return nil
			},
			Summarize: func(rows [][]string) string {
				return fmt.Sprintf("units extracted for %d measurements", len(rows))
			},
		})
}

func valueExtractionStep(ag *agent.Agent) workflow.Step {
	return workflow.NewAgentStep(StepValueExtraction, "Extracting parameter values",
		workflow.AgentStepConfig[valueAnswer, [][]string]{
			Agent:        ag,
			AgentOptions: []agent.Option{agent.WithTwoStep(true)},
			Prompt:       valuePrompt,
			Schema:       &valueSchema,
			PostProcess: func(s *workflow.State, a *valueAnswer) ([][]string, error) {
				return checkMatrix(a.Values, workflow.MustGet(s, KeyMeasurementTable).Len(), len(ValueColumns), "values")
			},
			Apply: func(s *workflow.State, rows [][]string) error {
				workflow.Set(s, KeyValueResults, table.New(ValueColumns, rows))
				return nil
			},
			Summarize: func(rows [][]string) string {
				return fmt.Sprintf("values extracted for %d measurements", len(rows))
			},
		})
}

// assemble concatenates drug, population, unit and value columns. Drug and
// population rows are repeated for every measurement of their source row.
func assemble(_ context.Context, s *workflow.State) (string, error) {
	drugs, err := workflow.Require(s, KeyDrugMatching)
	if err != nil {
		return "", err
	}
	pop, err := workflow.Require(s, KeyPopulationTable)
	if err != nil {
		return "", err
	}
	units, err := workflow.Require(s, KeyUnitTable)
	if err != nil {
		return "", err
	}
	values, err := workflow.Require(s, KeyValueResults)
	if err != nil {
		return "", err
	}
	rows, err := workflow.Require(s, KeySourceRows)
	if err != nil {
		return "", err
	}

	drugs, err = drugs.SelectRows(rows...)
	if err != nil {
		return "", fmt.Errorf("drug rows: %w", err)
	}
	pop, err = populationColumn(pop).SelectRows(rows...)
	if err != nil {
		return "", fmt.Errorf("population rows: %w", err)
	}

	combined, err := table.ConcatColumns(drugs, pop, units, values)
	if err != nil {
		return "", err
	}
	workflow.Set(s, KeyAssembledTable, combined)
	return fmt.Sprintf("%d rows assembled", combined.Len()), nil
}

// populationColumn folds the population columns into one, joining
// non-missing cells with "; ".
func populationColumn(pop *table.Table) *table.Table {
	rows := make([][]string, pop.Len())
	for i, r := range pop.Rows {
		var parts []string
		for _, c := range r {
			if !table.IsMissing(c) {
				parts = append(parts, strings.TrimSpace(c))
			}
		}
		if len(parts) == 0 {
			rows[i] = []string{table.Missing}
		} else {
			rows[i] = []string{strings.Join(parts, "; ")}
		}
	}
	return table.New([]string{CategoryPopulation}, rows)
}

// cleanupRows runs the normalization battery and writes combined_table.
func cleanupRows(_ context.Context, s *workflow.State) (string, error) {
	assembled, err := workflow.Require(s, KeyAssembledTable)
	if err != nil {
		return "", err
	}
	cleaned, err := table.Normalize(assembled, table.NormalizeOptions{
		RangeColumns: []string{ColMainValue, ColVariationValue},
		DigitColumns: []string{ColMainValue, ColVariationValue, ColIntervalLow, ColIntervalHigh},
		DropSubsumed: true,
	})
	if err != nil {
		return "", err
	}
	workflow.Set(s, KeyCombinedTable, cleaned)
	return fmt.Sprintf("%d of %d rows kept", cleaned.Len(), assembled.Len()), nil
}
