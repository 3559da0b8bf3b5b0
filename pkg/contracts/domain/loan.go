package domain

import (
	"strings"
	"time"
)

// RawColumns is the exact header of the raw loan extract, in file order.
// The staging loader rejects any file whose header does not match this set.
var RawColumns = []string{
	"loan_id",
	"customer_id",
	"loan_amount",
	"interest_rate",
	"loan_term",
	"monthly_payment",
	"loan_status",
	"purpose",
	"credit_score",
	"annual_income",
	"employment_length",
	"debt_to_income",
	"application_date",
	"approval_date",
	"disbursement_date",
}

// CleanColumns is the header of the cleaned snapshot: the raw columns plus
// the derived columns appended during cleaning.
var CleanColumns = append(append([]string{}, RawColumns...),
	"loan_to_income",
	"total_interest",
	"loan_category",
)

// StagingRecord is one row of the raw staging table. Every field is nullable
// because nothing has been validated yet; a nil pointer means the source cell
// was empty. Validation tags carry the range invariants enforced by the
// cleaning pipeline — rows failing them are dropped, never corrected.
type StagingRecord struct {
	LoanID           *string    `json:"loan_id" db:"loan_id" validate:"required"`
	CustomerID       *string    `json:"customer_id" db:"customer_id" validate:"required"`
	LoanAmount       *float64   `json:"loan_amount" db:"loan_amount" validate:"required,gt=0"`
	InterestRate     *float64   `json:"interest_rate" db:"interest_rate" validate:"required,gte=0,lte=50"`
	LoanTerm         *int       `json:"loan_term" db:"loan_term" validate:"required,gt=0"`
	MonthlyPayment   *float64   `json:"monthly_payment" db:"monthly_payment" validate:"required,gte=0"`
	LoanStatus       *string    `json:"loan_status" db:"loan_status" validate:"required"`
	Purpose          *string    `json:"purpose" db:"purpose"`
	CreditScore      *float64   `json:"credit_score" db:"credit_score" validate:"required,gte=300,lte=850"`
	AnnualIncome     *float64   `json:"annual_income" db:"annual_income" validate:"required,gt=0"`
	EmploymentLength *int       `json:"employment_length" db:"employment_length"`
	DebtToIncome     *float64   `json:"debt_to_income" db:"debt_to_income"`
	ApplicationDate  *time.Time `json:"application_date" db:"application_date"`
	ApprovalDate     *time.Time `json:"approval_date" db:"approval_date"`
	DisbursementDate *time.Time `json:"disbursement_date" db:"disbursement_date"`
}

// LoanRecord is one row of the cleaned table. All range-validated fields are
// concrete because validation has already run; fields that may legitimately
// be absent in the source stay as pointers. The cleaned table is a static
// snapshot — records are never mutated after the pipeline completes.
type LoanRecord struct {
	LoanID           string     `json:"loan_id" db:"loan_id" csv:"loan_id"`
	CustomerID       string     `json:"customer_id" db:"customer_id" csv:"customer_id"`
	LoanAmount       float64    `json:"loan_amount" db:"loan_amount" csv:"loan_amount"`
	InterestRate     float64    `json:"interest_rate" db:"interest_rate" csv:"interest_rate"`
	LoanTerm         int        `json:"loan_term" db:"loan_term" csv:"loan_term"`
	MonthlyPayment   float64    `json:"monthly_payment" db:"monthly_payment" csv:"monthly_payment"`
	LoanStatus       string     `json:"loan_status" db:"loan_status" csv:"loan_status"`
	Purpose          string     `json:"purpose" db:"purpose" csv:"purpose"`
	CreditScore      float64    `json:"credit_score" db:"credit_score" csv:"credit_score"`
	AnnualIncome     float64    `json:"annual_income" db:"annual_income" csv:"annual_income"`
	EmploymentLength int        `json:"employment_length" db:"employment_length" csv:"employment_length"`
	DebtToIncome     *float64   `json:"debt_to_income,omitempty" db:"debt_to_income" csv:"debt_to_income"`
	ApplicationDate  *time.Time `json:"application_date,omitempty" db:"application_date" csv:"application_date"`
	ApprovalDate     *time.Time `json:"approval_date,omitempty" db:"approval_date" csv:"approval_date"`
	DisbursementDate *time.Time `json:"disbursement_date,omitempty" db:"disbursement_date" csv:"disbursement_date"`

	// Derived columns, computed after all filtering.
	LoanToIncome  float64 `json:"loan_to_income" db:"loan_to_income" csv:"loan_to_income"`
	TotalInterest float64 `json:"total_interest" db:"total_interest" csv:"total_interest"`
	LoanCategory  string  `json:"loan_category" db:"loan_category" csv:"loan_category"`
}

// Canonical loan status vocabulary. Raw values outside this set pass through
// normalization unchanged (the vocabulary is open-ended).
const (
	StatusFullyPaid   = "Fully Paid"
	StatusCurrent     = "Current"
	StatusChargedOff  = "Charged Off"
	StatusLate16To30  = "Late (16-30 days)"
	StatusLate31To120 = "Late (31-120 days)"
)

// canonicalStatuses is checked in fixed order so normalization stays
// deterministic when a raw value happens to contain more than one status.
var canonicalStatuses = []string{
	StatusFullyPaid,
	StatusCurrent,
	StatusChargedOff,
	StatusLate31To120,
	StatusLate16To30,
}

// NormalizeStatus maps a raw loan status onto the canonical vocabulary using
// case-insensitive substring matching. Values that match nothing are returned
// trimmed but otherwise unchanged.
func NormalizeStatus(raw string) string {
	trimmed := strings.TrimSpace(raw)
	lower := strings.ToLower(trimmed)
	for _, canonical := range canonicalStatuses {
		if strings.Contains(lower, strings.ToLower(canonical)) {
			return canonical
		}
	}
	return trimmed
}

// IsDefaulted reports whether a status counts as defaulted/at-risk.
// Late (16-30 days) deliberately does not count.
func IsDefaulted(status string) bool {
	return status == StatusChargedOff || status == StatusLate31To120
}

// EstimatedLossRate returns the fraction of principal assumed lost for a
// status under the portfolio loss model: Charged Off loses 80%, any late
// status loses 20%, everything else loses nothing.
func EstimatedLossRate(status string) float64 {
	switch {
	case status == StatusChargedOff:
		return 0.80
	case strings.HasPrefix(status, "Late"):
		return 0.20
	default:
		return 0
	}
}

// Credit band labels, ordered from best to worst. Band boundaries are
// inclusive on the lower bound of each band.
const (
	BandExcellent = "Excellent (750+)"
	BandGood      = "Good (700-749)"
	BandFair      = "Fair (650-699)"
	BandPoor      = "Poor (600-649)"
	BandVeryPoor  = "Very Poor (<600)"
)

// CreditBands lists all bands in display order.
var CreditBands = []string{BandExcellent, BandGood, BandFair, BandPoor, BandVeryPoor}

// CreditBand discretizes a credit score into its band label.
func CreditBand(score float64) string {
	switch {
	case score >= 750:
		return BandExcellent
	case score >= 700:
		return BandGood
	case score >= 650:
		return BandFair
	case score >= 600:
		return BandPoor
	default:
		return BandVeryPoor
	}
}

// Loan size categories. The partition is total and non-overlapping:
// Small < 10000 <= Medium < 25000 <= Large.
const (
	CategorySmall  = "Small"
	CategoryMedium = "Medium"
	CategoryLarge  = "Large"
)

// LoanCategories lists all categories in display order.
var LoanCategories = []string{CategorySmall, CategoryMedium, CategoryLarge}

// CategorizeLoan returns the size category for a loan amount.
func CategorizeLoan(amount float64) string {
	switch {
	case amount < 10000:
		return CategorySmall
	case amount < 25000:
		return CategoryMedium
	default:
		return CategoryLarge
	}
}

// Employment tenure groups, ordered by tenure rather than alphabetically.
var EmploymentGroups = []string{"0 years", "1-2 years", "3-5 years", "6-10 years", "10+ years"}

// EmploymentGroup buckets whole years of employment into its tenure group.
func EmploymentGroup(years int) string {
	switch {
	case years <= 0:
		return EmploymentGroups[0]
	case years <= 2:
		return EmploymentGroups[1]
	case years <= 5:
		return EmploymentGroups[2]
	case years <= 10:
		return EmploymentGroups[3]
	default:
		return EmploymentGroups[4]
	}
}

// Customer segments: a 2x2 grid on annual income (>= / < 80000) crossed with
// loan amount (>= / < 25000).
var CustomerSegments = []string{
	"High Income / Large Loan",
	"High Income / Small Loan",
	"Low Income / Large Loan",
	"Low Income / Small Loan",
}

// CustomerSegment places a record on the income/amount grid.
func CustomerSegment(annualIncome, loanAmount float64) string {
	highIncome := annualIncome >= 80000
	largeLoan := loanAmount >= 25000
	switch {
	case highIncome && largeLoan:
		return CustomerSegments[0]
	case highIncome:
		return CustomerSegments[1]
	case largeLoan:
		return CustomerSegments[2]
	default:
		return CustomerSegments[3]
	}
}

// Risk factor labels in classification order.
var RiskFactors = []string{"Low Credit Score", "High DTI", "High Interest Rate", "Other"}

// AtRisk reports whether a record qualifies for the risk-factor report at
// all: at least one of the three risk conditions must hold.
func (r LoanRecord) AtRisk() bool {
	return r.CreditScore < 650 ||
		(r.DebtToIncome != nil && *r.DebtToIncome > 0.50) ||
		r.InterestRate > 8.0
}

// RiskFactor classifies a record by its dominant risk factor, first match
// wins. The "Other" arm is unreachable for records selected by AtRisk; it is
// kept because the source analysis carries the same branch and the intent is
// unclear.
func (r LoanRecord) RiskFactor() string {
	switch {
	case r.CreditScore < 650:
		return RiskFactors[0]
	case r.DebtToIncome != nil && *r.DebtToIncome > 0.50:
		return RiskFactors[1]
	case r.InterestRate > 8.0:
		return RiskFactors[2]
	default:
		return RiskFactors[3]
	}
}

// ToStaging converts a cleaned record back into staging form. Used to feed
// an already-cleaned snapshot through the pipeline again, which must be a
// no-op apart from recomputing derived columns.
func (r LoanRecord) ToStaging() StagingRecord {
	loanID := r.LoanID
	customerID := r.CustomerID
	amount := r.LoanAmount
	rate := r.InterestRate
	term := r.LoanTerm
	payment := r.MonthlyPayment
	status := r.LoanStatus
	purpose := r.Purpose
	score := r.CreditScore
	income := r.AnnualIncome
	tenure := r.EmploymentLength
	return StagingRecord{
		LoanID:           &loanID,
		CustomerID:       &customerID,
		LoanAmount:       &amount,
		InterestRate:     &rate,
		LoanTerm:         &term,
		MonthlyPayment:   &payment,
		LoanStatus:       &status,
		Purpose:          &purpose,
		CreditScore:      &score,
		AnnualIncome:     &income,
		EmploymentLength: &tenure,
		DebtToIncome:     r.DebtToIncome,
		ApplicationDate:  r.ApplicationDate,
		ApprovalDate:     r.ApprovalDate,
		DisbursementDate: r.DisbursementDate,
	}
}
