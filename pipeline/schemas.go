package pipeline

import (
	"strings"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/schema"
)

var (
	categorySchema = ai.ResponseSchema{
		Name:        "column_categories",
		Description: "Category of every column of a pharmacokinetic table",
		Schema: schema.Object().
			Field(schema.ReasoningField, schema.Reasoning()).
			Field("categories", schema.StringMap(
				"Map from every column header, spelled exactly as in the table, to one of: "+
					strings.Join(Categories, ", ")+".").Required()).
			MustBuild(),
	}

	drugSchema = ai.ResponseSchema{
		Name:        "drug_info",
		Description: "Drugs, analytes and specimens reported in a table",
		Schema: schema.Object().
			Field(schema.ReasoningField, schema.Reasoning()).
			Field("drugs", schema.StringMatrix(
				"Every distinct [drug name, analyte, specimen] combination. Use N/A for unknown fields.").Required()).
			MustBuild(),
	}

	matchSchema = ai.ResponseSchema{
		Name:        "drug_matching",
		Description: "Drug list entry each table row reports on",
		Schema: schema.Object().
			Field(schema.ReasoningField, schema.Reasoning()).
			Field("matches", schema.StringList(
				"One entry per table row, in row order: the number of the matching drug list entry.").Required()).
			MustBuild(),
	}

	unitSchema = ai.ResponseSchema{
		Name:        "unit_extraction",
		Description: "Pharmacokinetic parameter type and unit of every row",
		Schema: schema.Object().
			Field(schema.ReasoningField, schema.Reasoning()).
			Field("units", schema.StringMatrix(
				"One [parameter type, parameter unit] pair per table row, in row order.").Required()).
			MustBuild(),
	}

	valueSchema = ai.ResponseSchema{
		Name:        "value_extraction",
		Description: "Reported values of every row",
		Schema: schema.Object().
			Field(schema.ReasoningField, schema.Reasoning()).
			Field("values", schema.StringMatrix(
				"One entry per table row, in row order: ["+strings.Join(ValueColumns, ", ")+"].").Required()).
			MustBuild(),
	}

	studyInfoSchema = ai.ResponseSchema{
		Name:        "study_info",
		Description: "Study design facts reported by a pharmacoepidemiology table",
		Schema: schema.Object().
			Field(schema.ReasoningField, schema.Reasoning()).
			Field("fields", schema.StringMap(
				"Study facts keyed by name, e.g. study design, population, country, follow-up.").Required()).
			Field("randomized", schema.Bool().Desc("Whether the study is randomized.").Required()).
			Field("sample_size", schema.Int().Desc("Total number of subjects, 0 when not reported.").Required()).
			MustBuild(),
	}
)

type categoryAnswer struct {
	Reasoning  string            `json:"reasoning"`
	Categories map[string]string `json:"categories"`
}

type drugAnswer struct {
	Reasoning string     `json:"reasoning"`
	Drugs     [][]string `json:"drugs"`
}

type matchAnswer struct {
	Reasoning string   `json:"reasoning"`
	Matches   []string `json:"matches"`
}

type unitAnswer struct {
	Reasoning string     `json:"reasoning"`
	Units     [][]string `json:"units"`
}

type valueAnswer struct {
	Reasoning string     `json:"reasoning"`
	Values    [][]string `json:"values"`
}

type studyInfoAnswer struct {
	Reasoning  string            `json:"reasoning"`
	Fields     map[string]string `json:"fields"`
	Randomized bool              `json:"randomized"`
	SampleSize int               `json:"sample_size"`
}
