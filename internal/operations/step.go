package operations

import (
	"context"
	"sync"
	"time"

	"loancli/pkg/contracts/domain"
)

// State carries the working snapshot through the pipeline.
type State struct {
	// RunID identifies one pipeline execution in logs and step states.
	RunID string

	// Staging is the raw input snapshot. Steps never modify it.
	Staging []domain.StagingRecord

	// Working is the set being transformed. The snapshot step populates it
	// and every filtering step replaces it wholesale.
	Working []domain.StagingRecord

	// Cleaned holds the final enriched records, populated by the derive step.
	Cleaned []domain.LoanRecord
}

// Step represents a single step in the cleaning pipeline
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step against the current pipeline state
	Execute(ctx context.Context, state *State) error
}

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState represents the runtime state of a step
type StepState struct {
	mu        sync.RWMutex
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Status    StepStatus             `json:"status"`
	StartTime *time.Time             `json:"start_time,omitempty"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	RowsIn    int                    `json:"rows_in"`
	RowsOut   int                    `json:"rows_out"`
	Error     error                  `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewStepState creates a new step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]interface{}),
	}
}

// Start marks the step as active and sets the start time
func (s *StepState) Start(rowsIn int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
	s.RowsIn = rowsIn
}

// Complete marks the step as completed and records the surviving row count
func (s *StepState) Complete(rowsOut int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
	s.RowsOut = rowsOut
}

// Fail marks the step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Error = err
}

// Dropped returns how many rows the step removed
func (s *StepState) Dropped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.RowsIn - s.RowsOut
}

// SetMetadata records a named detail about the step execution
func (s *StepState) SetMetadata(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Metadata == nil {
		s.Metadata = make(map[string]interface{})
	}
	s.Metadata[key] = value
}

// Duration returns the duration of the step execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}
