package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	ai "github.com/spetersoncode/pkextract"
	"github.com/spetersoncode/pkextract/agent"
	"github.com/spetersoncode/pkextract/client"
	"github.com/spetersoncode/pkextract/table"
	"github.com/spetersoncode/pkextract/workflow"
)

// Input is one table to extract from.
type Input struct {
	// ID identifies the table in batch results, e.g. "PMC123/table2".
	ID       string
	Table    *table.Table
	Caption  string
	Footnote string
}

// Output is the result of one extraction. On failure it still carries the
// usage spent and the nodes that ran.
type Output struct {
	ID    string          `json:"id"`
	RunID string          `json:"run_id"`
	Table *table.Table    `json:"table,omitempty"`
	Usage ai.TokenUsage   `json:"usage"`
	Trace []string        `json:"trace"`
	State *workflow.State `json:"-"`
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithAgentOptions sets options applied to every agent step.
func WithAgentOptions(opts ...agent.Option) Option {
	return func(e *Extractor) {
		e.agentOpts = append(e.agentOpts, opts...)
	}
}

// WithCallback adds a callback notified by every run.
func WithCallback(cb workflow.Callback) Option {
	return func(e *Extractor) {
		e.callback = workflow.Callbacks(e.callback, cb)
	}
}

// WithLogger logs run progress and passes the logger to the agents.
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// WithInterval spaces consecutive model calls at least d apart, across all
// runs of the Extractor.
func WithInterval(d time.Duration) Option {
	return func(e *Extractor) {
		e.interval = d
	}
}

// WithTimeout bounds each run.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.timeout = d
	}
}

// Extractor runs the PK summary and PE study info workflows. It is safe for
// concurrent use; every call gets a fresh State.
type Extractor struct {
	completer ai.Completer
	agentOpts []agent.Option
	callback  workflow.Callback
	logger    *slog.Logger
	interval  time.Duration
	timeout   time.Duration

	pk *workflow.Workflow
	pe *workflow.Workflow
}

// NewExtractor creates an Extractor on top of c.
func NewExtractor(c ai.Completer, opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}

	e.completer = client.Paced(c, e.interval)
	agentOpts := e.agentOpts
	if e.logger != nil {
		agentOpts = append([]agent.Option{agent.WithLogger(e.logger)}, agentOpts...)
		e.callback = workflow.Callbacks(workflow.LogCallback(e.logger), e.callback)
	}
	ag := agent.New(e.completer, agentOpts...)

	e.pk = PKSummaryGraph(ag).MustCompile()
	e.pe = PEStudyInfoGraph(ag).MustCompile()
	return e
}

// ExtractPKSummary extracts the PK summary table of in. The result has the
// PKSummaryColumns layout.
func (e *Extractor) ExtractPKSummary(ctx context.Context, in Input) (*Output, error) {
	return e.run(ctx, e.pk, in, KeyCombinedTable, PKSummaryColumns)
}

// ExtractPEStudyInfo extracts the study design facts of in. The result has
// the PEStudyInfoColumns layout.
func (e *Extractor) ExtractPEStudyInfo(ctx context.Context, in Input) (*Output, error) {
	return e.run(ctx, e.pe, in, KeyStudyInfoTable, PEStudyInfoColumns)
}

func (e *Extractor) run(ctx context.Context, wf *workflow.Workflow, in Input, key workflow.Key[*table.Table], published []string) (*Output, error) {
	out := &Output{ID: in.ID}
	state, err := e.seed(in)
	if err != nil {
		return out, err
	}
	out.State = state

	var opts []workflow.Option
	if e.callback != nil {
		opts = append(opts, workflow.WithCallback(e.callback))
	}
	if e.timeout > 0 {
		opts = append(opts, workflow.WithTimeout(e.timeout))
	}

	res, err := wf.Run(ctx, state, opts...)
	if res != nil {
		out.RunID = res.RunID
		out.Usage = res.Usage
		out.Trace = res.Trace
	}
	if err != nil {
		return out, fmt.Errorf("%s %q: %w", wf.Name(), in.ID, err)
	}

	result, err := workflow.Require(state, key)
	if err != nil {
		return out, err
	}
	out.Table = result.Conform(published)
	return out, nil
}

// seed builds the initial State of a run.
func (e *Extractor) seed(in Input) (*workflow.State, error) {
	if in.Table == nil || in.Table.Width() == 0 || in.Table.Len() == 0 {
		return nil, fmt.Errorf("%w: table %q has no data", ai.ErrEmptyInput, in.ID)
	}

	state := workflow.NewState()
	workflow.Set(state, KeySourceTable, in.Table.DedupColumns())
	workflow.Set(state, KeyCaption, in.Caption)
	workflow.Set(state, KeyFootnote, in.Footnote)
	workflow.Set(state, workflow.KeyCompleter, e.completer)
	return state, nil
}
