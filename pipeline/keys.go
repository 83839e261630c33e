package pipeline

import (
	"github.com/spetersoncode/pkextract/table"
	"github.com/spetersoncode/pkextract/workflow"
)

// Seed keys, written by the Extractor before a run.
var (
	KeySourceTable = workflow.NewKey[*table.Table]("source_table")
	KeyCaption     = workflow.NewKey[string]("caption")
	KeyFootnote    = workflow.NewKey[string]("footnote")
)

// PK summary keys, one per producing step.
var (
	// column_categorization
	KeyColumnCategories = workflow.NewKey[map[string]string]("column_categories")

	// table_split
	KeyDrugTable       = workflow.NewKey[*table.Table]("drug_table")
	KeyPopulationTable = workflow.NewKey[*table.Table]("population_table")
	KeyParameterTable  = workflow.NewKey[*table.Table]("parameter_table")
	KeyValueTable      = workflow.NewKey[*table.Table]("value_table")

	// KeyMeasurementTable holds one row per measurement. It is the source
	// table unless the source reports one parameter per column.
	KeyMeasurementTable = workflow.NewKey[*table.Table]("measurement_table")

	// KeySourceRows maps each measurement row to its source row.
	KeySourceRows = workflow.NewKey[[]int]("source_rows")

	// drug_info
	KeyDrugList = workflow.NewKey[[][]string]("drug_list")

	// drug_matching_auto or drug_matching_agent
	KeyDrugMatching = workflow.NewKey[*table.Table]("drug_matching")

	// unit_extraction
	KeyUnitTable = workflow.NewKey[*table.Table]("unit_table")

	// value_extraction
	KeyValueResults = workflow.NewKey[*table.Table]("value_results")

	// assembly
	KeyAssembledTable = workflow.NewKey[*table.Table]("assembled_table")

	// row_cleanup
	KeyCombinedTable = workflow.NewKey[*table.Table]("combined_table")
)

// PE study info keys.
var (
	KeyStudyInfo      = workflow.NewKey[*StudyInfo]("study_info")
	KeyStudyInfoTable = workflow.NewKey[*table.Table]("study_info_table")
)
