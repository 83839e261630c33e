package pipeline

import (
	"slices"
	"strings"
)

// Column categories assigned by column_categorization.
const (
	CategoryDrugName       = "Drug name"
	CategoryAnalyte        = "Analyte"
	CategorySpecimen       = "Specimen"
	CategoryPopulation     = "Population"
	CategoryParameterType  = "Parameter type"
	CategoryParameterUnit  = "Parameter unit"
	CategoryParameterValue = "Parameter value"
	CategoryUncategorized  = "Uncategorized"
)

// Categories lists every valid column category.
var Categories = []string{
	CategoryDrugName,
	CategoryAnalyte,
	CategorySpecimen,
	CategoryPopulation,
	CategoryParameterType,
	CategoryParameterUnit,
	CategoryParameterValue,
	CategoryUncategorized,
}

// Value columns produced by value_extraction.
const (
	ColMainValue      = "Main value"
	ColStatisticsType = "Statistics type"
	ColVariationValue = "Variation value"
	ColIntervalLow    = "Interval low"
	ColIntervalHigh   = "Interval high"
	ColPValue         = "P value"
)

var (
	// DrugColumns are the columns of the drug matching table.
	DrugColumns = []string{CategoryDrugName, CategoryAnalyte, CategorySpecimen}

	// UnitColumns are the columns of the unit table.
	UnitColumns = []string{CategoryParameterType, CategoryParameterUnit}

	// ValueColumns are the columns of the value results table.
	ValueColumns = []string{ColMainValue, ColStatisticsType, ColVariationValue, ColIntervalLow, ColIntervalHigh, ColPValue}

	// PKSummaryColumns is the published PK summary layout.
	PKSummaryColumns = slices.Concat(DrugColumns, []string{CategoryPopulation}, UnitColumns, ValueColumns)

	// PEStudyInfoColumns is the published PE study info layout.
	PEStudyInfoColumns = []string{"Field", "Value"}
)

// canonicalCategory maps a category as written by a model to its canonical
// spelling.
func canonicalCategory(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories {
		if strings.EqualFold(c, s) {
			return c, true
		}
	}
	return "", false
}

// splitGroup is the sub-table a category belongs to.
func splitGroup(category string) string {
	switch category {
	case CategoryDrugName, CategoryAnalyte, CategorySpecimen:
		return groupDrug
	case CategoryPopulation:
		return groupPopulation
	case CategoryParameterType, CategoryParameterUnit:
		return groupParameter
	case CategoryParameterValue:
		return groupValue
	default:
		return ""
	}
}

const (
	groupDrug       = "drug"
	groupPopulation = "population"
	groupParameter  = "parameter"
	groupValue      = "value"
)
