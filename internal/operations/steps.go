package operations

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"loancli/internal/errors"
	"loancli/pkg/contracts/domain"
)

// Step identifiers, in execution order.
const (
	StepIDSnapshot    = "snapshot"
	StepIDDeduplicate = "deduplicate"
	StepIDDropNull    = "drop_null_critical"
	StepIDImpute      = "impute"
	StepIDNormalize   = "normalize"
	StepIDValidate    = "validate"
	StepIDDerive      = "derive"
)

// SnapshotStep materializes a working copy of every staging field.
// No filtering happens here.
type SnapshotStep struct{}

func (SnapshotStep) ID() string   { return StepIDSnapshot }
func (SnapshotStep) Name() string { return "Snapshot Copy" }

func (SnapshotStep) Execute(_ context.Context, state *State) error {
	state.Working = make([]domain.StagingRecord, len(state.Staging))
	copy(state.Working, state.Staging)
	return nil
}

// DeduplicateStep keeps exactly one row per (customer_id, loan_amount,
// application_date) partition: the one with the lowest loan_id. Survivors
// keep the position of the partition's first occurrence, so re-running on an
// already-deduplicated set is a no-op.
type DeduplicateStep struct{}

func (DeduplicateStep) ID() string   { return StepIDDeduplicate }
func (DeduplicateStep) Name() string { return "Deduplication" }

func (DeduplicateStep) Execute(_ context.Context, state *State) error {
	type slot struct {
		index  int
		loanID *string
	}

	kept := make([]domain.StagingRecord, 0, len(state.Working))
	seen := make(map[string]slot)

	for _, record := range state.Working {
		key := dedupKey(record)
		existing, ok := seen[key]
		if !ok {
			seen[key] = slot{index: len(kept), loanID: record.LoanID}
			kept = append(kept, record)
			continue
		}
		if loanIDLess(record.LoanID, existing.loanID) {
			kept[existing.index] = record
			seen[key] = slot{index: existing.index, loanID: record.LoanID}
		}
	}

	state.Working = kept
	return nil
}

// dedupKey builds the partition key. Nil fields participate as empty values
// so two rows missing the same field still land in the same partition.
func dedupKey(r domain.StagingRecord) string {
	var customer, amount, date string
	if r.CustomerID != nil {
		customer = *r.CustomerID
	}
	if r.LoanAmount != nil {
		amount = strconv.FormatFloat(*r.LoanAmount, 'f', -1, 64)
	}
	if r.ApplicationDate != nil {
		date = r.ApplicationDate.Format("2006-01-02")
	}
	return customer + "\x1f" + amount + "\x1f" + date
}

// loanIDLess orders loan IDs lexically, with nil sorting after every real
// value so a row that still has an identifier always wins.
func loanIDLess(a, b *string) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return *a < *b
}

// DropNullCriticalStep discards rows missing loan_id, customer_id,
// loan_amount, or loan_status. These are unrecoverable; no imputation is
// attempted.
type DropNullCriticalStep struct{}

func (DropNullCriticalStep) ID() string   { return StepIDDropNull }
func (DropNullCriticalStep) Name() string { return "Critical Field Filter" }

func (DropNullCriticalStep) Execute(_ context.Context, state *State) error {
	kept := make([]domain.StagingRecord, 0, len(state.Working))
	for _, record := range state.Working {
		if record.LoanID == nil || record.CustomerID == nil ||
			record.LoanAmount == nil || record.LoanStatus == nil {
			continue
		}
		kept = append(kept, record)
	}
	state.Working = kept
	return nil
}

// ImputeStep fills missing credit scores with the mean of all observed
// scores and missing employment lengths with zero. The mean is computed in a
// single pass before any value is written back, so imputed values never feed
// into it. Mean/zero fill is the simplest strategy, not a statistically
// optimal one; that choice is intentional.
type ImputeStep struct {
	CreditScore      bool
	EmploymentLength bool

	state *StepState
}

func (*ImputeStep) ID() string   { return StepIDImpute }
func (*ImputeStep) Name() string { return "Imputation" }

func (s *ImputeStep) Execute(_ context.Context, state *State) error {
	var imputedScores, imputedTenure int

	if s.CreditScore {
		var sum float64
		var observed int
		for _, record := range state.Working {
			if record.CreditScore != nil {
				sum += *record.CreditScore
				observed++
			}
		}
		// With no observed scores there is nothing to impute from; the
		// missing rows fall to range validation instead.
		if observed > 0 {
			mean := sum / float64(observed)
			for i := range state.Working {
				if state.Working[i].CreditScore == nil {
					value := mean
					state.Working[i].CreditScore = &value
					imputedScores++
				}
			}
			if s.state != nil && imputedScores > 0 {
				s.state.SetMetadata("credit_score_mean", mean)
			}
		}
	}

	if s.EmploymentLength {
		for i := range state.Working {
			if state.Working[i].EmploymentLength == nil {
				zero := 0
				state.Working[i].EmploymentLength = &zero
				imputedTenure++
			}
		}
	}

	if s.state != nil {
		s.state.SetMetadata("imputed_credit_scores", imputedScores)
		s.state.SetMetadata("imputed_employment_lengths", imputedTenure)
	}

	return nil
}

// NormalizeStep maps raw loan statuses onto the canonical vocabulary and
// trims whitespace from free-text fields. Statuses matching nothing pass
// through unchanged — the vocabulary is open-ended.
type NormalizeStep struct{}

func (NormalizeStep) ID() string   { return StepIDNormalize }
func (NormalizeStep) Name() string { return "Categorical Normalization" }

func (NormalizeStep) Execute(_ context.Context, state *State) error {
	for i := range state.Working {
		record := &state.Working[i]
		if record.LoanStatus != nil {
			normalized := domain.NormalizeStatus(*record.LoanStatus)
			record.LoanStatus = &normalized
		}
		if record.Purpose != nil {
			trimmed := strings.TrimSpace(*record.Purpose)
			if trimmed == "" {
				record.Purpose = nil
			} else {
				record.Purpose = &trimmed
			}
		}
	}
	return nil
}

// ValidateStep discards rows failing any range invariant. Validation is
// lossy by design: failing rows are dropped, not flagged or corrected.
type ValidateStep struct {
	validate *validator.Validate
}

// NewValidateStep creates a validation step with a fresh validator instance.
func NewValidateStep() *ValidateStep {
	return &ValidateStep{validate: validator.New()}
}

func (*ValidateStep) ID() string   { return StepIDValidate }
func (*ValidateStep) Name() string { return "Range Validation" }

func (s *ValidateStep) Execute(_ context.Context, state *State) error {
	kept := make([]domain.StagingRecord, 0, len(state.Working))
	for _, record := range state.Working {
		err := s.validate.Struct(record)
		if err == nil {
			kept = append(kept, record)
			continue
		}
		if _, ok := err.(validator.ValidationErrors); !ok {
			// Not a per-row failure: the struct itself cannot be validated.
			return errors.NewConfigError("record validation is misconfigured", err)
		}
	}
	state.Working = kept
	return nil
}

// DeriveStep computes the derived columns over the surviving rows and
// produces the cleaned records. It runs after all filtering so derived
// values are only ever computed on valid rows.
type DeriveStep struct{}

func (DeriveStep) ID() string   { return StepIDDerive }
func (DeriveStep) Name() string { return "Derived Fields" }

func (DeriveStep) Execute(_ context.Context, state *State) error {
	cleaned := make([]domain.LoanRecord, 0, len(state.Working))
	for i, record := range state.Working {
		if record.LoanID == nil || record.CustomerID == nil || record.LoanAmount == nil ||
			record.InterestRate == nil || record.LoanTerm == nil || record.MonthlyPayment == nil ||
			record.LoanStatus == nil || record.CreditScore == nil || record.AnnualIncome == nil {
			return errors.NewConfigError(
				fmt.Sprintf("row %d reached derivation with null validated fields", i), nil)
		}
		if *record.AnnualIncome == 0 {
			// Range validation guarantees a positive income; a zero here
			// means an earlier step was skipped or reordered.
			return errors.NewConfigError(
				fmt.Sprintf("row %d has zero annual income at derivation", i), nil)
		}

		amount := decimal.NewFromFloat(*record.LoanAmount)
		loanToIncome := amount.
			DivRound(decimal.NewFromFloat(*record.AnnualIncome), 4).
			InexactFloat64()
		totalInterest := decimal.NewFromFloat(*record.MonthlyPayment).
			Mul(decimal.NewFromInt(int64(*record.LoanTerm))).
			Sub(amount).
			Round(2).
			InexactFloat64()

		clean := domain.LoanRecord{
			LoanID:           *record.LoanID,
			CustomerID:       *record.CustomerID,
			LoanAmount:       *record.LoanAmount,
			InterestRate:     *record.InterestRate,
			LoanTerm:         *record.LoanTerm,
			MonthlyPayment:   *record.MonthlyPayment,
			LoanStatus:       *record.LoanStatus,
			CreditScore:      *record.CreditScore,
			AnnualIncome:     *record.AnnualIncome,
			DebtToIncome:     record.DebtToIncome,
			ApplicationDate:  record.ApplicationDate,
			ApprovalDate:     record.ApprovalDate,
			DisbursementDate: record.DisbursementDate,
			LoanToIncome:     loanToIncome,
			TotalInterest:    totalInterest,
			LoanCategory:     domain.CategorizeLoan(*record.LoanAmount),
		}
		if record.Purpose != nil {
			clean.Purpose = *record.Purpose
		}
		if record.EmploymentLength != nil {
			clean.EmploymentLength = *record.EmploymentLength
		}
		cleaned = append(cleaned, clean)
	}

	state.Cleaned = cleaned
	return nil
}
