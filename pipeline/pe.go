package pipeline

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/spetersoncode/pkextract/agent"
	"github.com/spetersoncode/pkextract/table"
	"github.com/spetersoncode/pkextract/workflow"
)

// Step names of the PE study info workflow.
const (
	StepStudyInfo      = "study_info"
	StepStudyInfoTable = "study_info_table"
)

// StudyInfo holds the design facts of a pharmacoepidemiology study.
type StudyInfo struct {
	Fields     map[string]string `json:"fields"`
	Randomized bool              `json:"randomized"`
	SampleSize int               `json:"sample_size"`
}

// Table renders the facts as Field/Value rows, sorted by field name, followed
// by the randomization flag and the sample size.
func (si *StudyInfo) Table() *table.Table {
	names := make([]string, 0, len(si.Fields))
	for k := range si.Fields {
		names = append(names, k)
	}
	slices.Sort(names)

	rows := make([][]string, 0, len(names)+2)
	for _, k := range names {
		rows = append(rows, []string{k, si.Fields[k]})
	}
	randomized := "No"
	if si.Randomized {
		randomized = "Yes"
	}
	size := table.Missing
	if si.SampleSize > 0 {
		size = strconv.Itoa(si.SampleSize)
	}
	rows = append(rows, []string{"Randomized", randomized}, []string{"Sample size", size})
	return table.New(PEStudyInfoColumns, rows)
}

// PEStudyInfoGraph builds the PE study info workflow.
func PEStudyInfoGraph(ag *agent.Agent) *workflow.Graph {
	return workflow.NewGraph("pe_study_info").
		AddNode(studyInfoStep(ag)).
		AddNode(workflow.NewFuncStep(StepStudyInfoTable, "Building the study info table", studyInfoTable)).
		SetEntry(StepStudyInfo).
		AddEdge(StepStudyInfo, StepStudyInfoTable).
		SetFinish(StepStudyInfoTable)
}

func studyInfoStep(ag *agent.Agent) workflow.Step {
	return workflow.NewAgentStep(StepStudyInfo, "Extracting study information",
		workflow.AgentStepConfig[studyInfoAnswer, *StudyInfo]{
			Agent:  ag,
			Prompt: studyInfoPrompt,
			Schema: &studyInfoSchema,
			PostProcess: func(_ *workflow.State, a *studyInfoAnswer) (*StudyInfo, error) {
				return checkStudyInfo(a)
			},
			Apply: func(s *workflow.State, si *StudyInfo) error {
				workflow.Set(s, KeyStudyInfo, si)
				return nil
			},
			Summarize: func(si *StudyInfo) string {
				return fmt.Sprintf("%d study facts", len(si.Fields))
			},
		})
}

func studyInfoTable(_ context.Context, s *workflow.State) (string, error) {
	si, err := workflow.Require(s, KeyStudyInfo)
	if err != nil {
		return "", err
	}
	t := si.Table()
	workflow.Set(s, KeyStudyInfoTable, t)
	return fmt.Sprintf("%d rows", t.Len()), nil
}
