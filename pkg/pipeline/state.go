package pipeline

import (
	"context"
	"time"

	"github.com/Azure/automata/pkg/core/analysis"
	"github.com/Azure/automata/pkg/stage"
	"github.com/google/uuid"
)

type RunOutcome string

const (
	RunOutcomeSuccess RunOutcome = "success"
	RunOutcomeFailure RunOutcome = "failure"
	RunOutcomeTimeout RunOutcome = "timeout"
)

// Report holds what one run did. Stages lists only the stages that were
// invoked, in pipeline order.
type Report struct {
	RunID     string          `json:"run_id"`
	Root      string          `json:"root"`
	Scope     stage.Scope     `json:"scope"`
	Revision  string          `json:"revision,omitempty"`
	Detection analysis.Result `json:"detection"`
	Stages    []stage.Outcome `json:"stages"`
	Outcome   RunOutcome      `json:"outcome"`
	Error     string          `json:"error,omitempty"`
	Started   time.Time       `json:"started"`
	Finished  time.Time       `json:"finished"`
}

func newReport(root string, scope stage.Scope) *Report {
	return &Report{
		RunID:     uuid.NewString(),
		Root:      root,
		Scope:     scope,
		Detection: analysis.Result{Languages: []analysis.Ecosystem{}, Files: []string{}},
		Stages:    []stage.Outcome{},
		Started:   time.Now().UTC(),
	}
}

func (r *Report) record(outcome stage.Outcome) {
	r.Stages = append(r.Stages, outcome)
}

// finish classifies the run. An expired context wins over a nil error since
// the stages swallow the failures it causes.
func (r *Report) finish(ctx context.Context, err error) {
	r.Finished = time.Now().UTC()
	switch {
	case ctx.Err() != nil:
		r.Outcome = RunOutcomeTimeout
		if err == nil {
			err = ctx.Err()
		}
		r.Error = err.Error()
	case err == nil:
		r.Outcome = RunOutcomeSuccess
	default:
		r.Outcome = RunOutcomeFailure
		r.Error = err.Error()
	}
}

// Suppressed totals the diagnostics across every recorded stage.
func (r *Report) Suppressed() int {
	n := 0
	for _, o := range r.Stages {
		n += o.Suppressed()
	}
	return n
}
