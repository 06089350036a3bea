package release

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Step is one unit of the release pipeline.
type Step struct {
	Label string
	Kind  ErrorCode // reported when the step fails; defaults to CodeExecutionFailed
	Run   func(ctx context.Context) error
}

// Pipeline runs steps one after another. The first failure stops it.
type Pipeline struct {
	Steps  []Step
	Logger *log.Logger
}

// Run executes every step in order and returns a *StepExecutionError for
// the step that failed. Steps after a failure never start.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := p.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	total := len(p.Steps)
	for i, step := range p.Steps {
		if err := ctx.Err(); err != nil {
			return &StepExecutionError{Index: i + 1, Label: step.Label, Kind: step.Kind, Err: err}
		}
		logger.Info(step.Label, "step", fmt.Sprintf("%d/%d", i+1, total))
		if err := step.Run(ctx); err != nil {
			return &StepExecutionError{Index: i + 1, Label: step.Label, Kind: step.Kind, Err: err}
		}
	}
	return nil
}

// Plan returns the step labels in execution order.
func (p *Pipeline) Plan() []string {
	labels := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		labels[i] = s.Label
	}
	return labels
}
