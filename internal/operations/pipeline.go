package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"loancli/pkg/contracts/domain"
)

// Options configures the cleaning pipeline.
type Options struct {
	ImputeCreditScore      bool
	ImputeEmploymentLength bool
}

// DefaultOptions returns the standard pipeline configuration.
func DefaultOptions() Options {
	return Options{
		ImputeCreditScore:      true,
		ImputeEmploymentLength: true,
	}
}

// Pipeline executes the cleaning steps in their fixed order, stopping on
// the first error. There is no per-row exception recovery and no partial
// success: a run either leaves a complete cleaned snapshot or none at all.
type Pipeline struct {
	logger *slog.Logger
	steps  []Step
	impute *ImputeStep
}

// New creates a cleaning pipeline with the standard step order.
func New(logger *slog.Logger, opts Options) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	impute := &ImputeStep{
		CreditScore:      opts.ImputeCreditScore,
		EmploymentLength: opts.ImputeEmploymentLength,
	}

	return &Pipeline{
		logger: logger,
		impute: impute,
		steps: []Step{
			SnapshotStep{},
			DeduplicateStep{},
			DropNullCriticalStep{},
			impute,
			NormalizeStep{},
			NewValidateStep(),
			DeriveStep{},
		},
	}
}

// Result summarizes one pipeline run.
type Result struct {
	RunID    string
	Input    int
	Cleaned  []domain.LoanRecord
	Steps    []*StepState
	Duration time.Duration
}

// DroppedTotal returns how many input rows did not survive cleaning.
func (r *Result) DroppedTotal() int {
	return r.Input - len(r.Cleaned)
}

// StepByID returns the state of a named step, or nil if the run never
// reached it.
func (r *Result) StepByID(id string) *StepState {
	for _, step := range r.Steps {
		if step.ID == id {
			return step
		}
	}
	return nil
}

// Run executes the pipeline over a staging snapshot.
func (p *Pipeline) Run(ctx context.Context, staging []domain.StagingRecord) (*Result, error) {
	started := time.Now()
	state := &State{
		RunID:   uuid.NewString(),
		Staging: staging,
	}

	result := &Result{
		RunID: state.RunID,
		Input: len(staging),
	}

	logger := p.logger.With(slog.String("run_id", state.RunID))
	logger.InfoContext(ctx, "starting cleaning pipeline",
		slog.Int("staging_rows", len(staging)),
		slog.Int("step_count", len(p.steps)))

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline cancelled before step %s: %w", step.ID(), err)
		}

		stepState := NewStepState(step.ID(), step.Name())
		result.Steps = append(result.Steps, stepState)
		if step.ID() == StepIDImpute {
			p.impute.state = stepState
		}

		rowsIn := len(state.Working)
		if step.ID() == StepIDSnapshot {
			rowsIn = len(state.Staging)
		}
		stepState.Start(rowsIn)

		if err := step.Execute(ctx, state); err != nil {
			stepState.Fail(err)
			logger.ErrorContext(ctx, "cleaning step failed",
				slog.String("step", step.ID()),
				slog.String("error", err.Error()))
			return nil, fmt.Errorf("step %s: %w", step.ID(), err)
		}

		rowsOut := len(state.Working)
		if step.ID() == StepIDDerive {
			rowsOut = len(state.Cleaned)
		}
		stepState.Complete(rowsOut)

		logger.InfoContext(ctx, "cleaning step completed",
			slog.String("step", step.ID()),
			slog.Int("rows_in", stepState.RowsIn),
			slog.Int("rows_out", stepState.RowsOut),
			slog.Int("dropped", stepState.Dropped()),
			slog.Duration("duration", stepState.Duration()))
	}

	result.Cleaned = state.Cleaned
	result.Duration = time.Since(started)

	logger.InfoContext(ctx, "cleaning pipeline completed",
		slog.Int("input_rows", result.Input),
		slog.Int("cleaned_rows", len(result.Cleaned)),
		slog.Int("dropped_rows", result.DroppedTotal()),
		slog.Duration("duration", result.Duration))

	return result, nil
}
