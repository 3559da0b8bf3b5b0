package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "already canonical", raw: "Fully Paid", want: "Fully Paid"},
		{name: "upper case", raw: "CHARGED OFF", want: "Charged Off"},
		{name: "lower case", raw: "current", want: "Current"},
		{name: "mixed case late", raw: "Late (31-120 Days)", want: "Late (31-120 days)"},
		{name: "short late window", raw: "late (16-30 days)", want: "Late (16-30 days)"},
		{name: "surrounding whitespace", raw: "  fully paid  ", want: "Fully Paid"},
		{name: "unknown passes through", raw: "In Grace Period", want: "In Grace Period"},
		{name: "unknown trimmed", raw: " Default ", want: "Default"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.raw))
		})
	}
}

func TestIsDefaulted(t *testing.T) {
	assert.True(t, IsDefaulted(StatusChargedOff))
	assert.True(t, IsDefaulted(StatusLate31To120))
	assert.False(t, IsDefaulted(StatusLate16To30))
	assert.False(t, IsDefaulted(StatusCurrent))
	assert.False(t, IsDefaulted(StatusFullyPaid))
	assert.False(t, IsDefaulted("In Grace Period"))
}

func TestEstimatedLossRate(t *testing.T) {
	assert.InDelta(t, 0.80, EstimatedLossRate(StatusChargedOff), 1e-9)
	assert.InDelta(t, 0.20, EstimatedLossRate(StatusLate16To30), 1e-9)
	assert.InDelta(t, 0.20, EstimatedLossRate(StatusLate31To120), 1e-9)
	assert.Zero(t, EstimatedLossRate(StatusCurrent))
	assert.Zero(t, EstimatedLossRate(StatusFullyPaid))
}

func TestCreditBand(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{score: 850, want: BandExcellent},
		{score: 750, want: BandExcellent},
		{score: 749.9, want: BandGood},
		{score: 700, want: BandGood},
		{score: 699, want: BandFair},
		{score: 650, want: BandFair},
		{score: 649, want: BandPoor},
		{score: 600, want: BandPoor},
		{score: 599.9, want: BandVeryPoor},
		{score: 300, want: BandVeryPoor},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CreditBand(tt.score), "score %v", tt.score)
	}
}

func TestCategorizeLoan(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{amount: 500, want: CategorySmall},
		{amount: 9999.99, want: CategorySmall},
		{amount: 10000, want: CategoryMedium},
		{amount: 24999.99, want: CategoryMedium},
		{amount: 25000, want: CategoryLarge},
		{amount: 100000, want: CategoryLarge},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeLoan(tt.amount), "amount %v", tt.amount)
	}
}

func TestEmploymentGroup(t *testing.T) {
	tests := []struct {
		years int
		want  string
	}{
		{years: 0, want: "0 years"},
		{years: 1, want: "1-2 years"},
		{years: 2, want: "1-2 years"},
		{years: 3, want: "3-5 years"},
		{years: 5, want: "3-5 years"},
		{years: 6, want: "6-10 years"},
		{years: 10, want: "6-10 years"},
		{years: 11, want: "10+ years"},
		{years: 40, want: "10+ years"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, EmploymentGroup(tt.years), "years %d", tt.years)
	}
}

func TestCustomerSegment(t *testing.T) {
	tests := []struct {
		income float64
		amount float64
		want   string
	}{
		{income: 80000, amount: 25000, want: "High Income / Large Loan"},
		{income: 120000, amount: 24999, want: "High Income / Small Loan"},
		{income: 79999, amount: 25000, want: "Low Income / Large Loan"},
		{income: 50000, amount: 5000, want: "Low Income / Small Loan"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CustomerSegment(tt.income, tt.amount))
	}
}

func TestRiskFactorFirstMatchWins(t *testing.T) {
	dti := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		record LoanRecord
		atRisk bool
		want   string
	}{
		{
			name:   "low score dominates high dti",
			record: LoanRecord{CreditScore: 600, DebtToIncome: dti(0.60), InterestRate: 12},
			atRisk: true,
			want:   "Low Credit Score",
		},
		{
			name:   "high dti dominates high rate",
			record: LoanRecord{CreditScore: 700, DebtToIncome: dti(0.60), InterestRate: 12},
			atRisk: true,
			want:   "High DTI",
		},
		{
			name:   "high rate alone",
			record: LoanRecord{CreditScore: 700, DebtToIncome: dti(0.30), InterestRate: 9},
			atRisk: true,
			want:   "High Interest Rate",
		},
		{
			name:   "boundary values are not risky",
			record: LoanRecord{CreditScore: 650, DebtToIncome: dti(0.50), InterestRate: 8.0},
			atRisk: false,
			want:   "Other",
		},
		{
			name:   "missing dti is not high dti",
			record: LoanRecord{CreditScore: 700, DebtToIncome: nil, InterestRate: 5},
			atRisk: false,
			want:   "Other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.atRisk, tt.record.AtRisk())
			assert.Equal(t, tt.want, tt.record.RiskFactor())
		})
	}
}

func TestToStagingRoundTrip(t *testing.T) {
	applied := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	dti := 0.25
	record := LoanRecord{
		LoanID:           "L001",
		CustomerID:       "C042",
		LoanAmount:       12000,
		InterestRate:     7.5,
		LoanTerm:         36,
		MonthlyPayment:   373.27,
		LoanStatus:       StatusCurrent,
		Purpose:          "debt_consolidation",
		CreditScore:      712,
		AnnualIncome:     64000,
		EmploymentLength: 4,
		DebtToIncome:     &dti,
		ApplicationDate:  &applied,
	}

	staging := record.ToStaging()

	require.NotNil(t, staging.LoanID)
	assert.Equal(t, record.LoanID, *staging.LoanID)
	require.NotNil(t, staging.LoanAmount)
	assert.Equal(t, record.LoanAmount, *staging.LoanAmount)
	require.NotNil(t, staging.LoanTerm)
	assert.Equal(t, record.LoanTerm, *staging.LoanTerm)
	require.NotNil(t, staging.CreditScore)
	assert.Equal(t, record.CreditScore, *staging.CreditScore)
	assert.Equal(t, record.DebtToIncome, staging.DebtToIncome)
	assert.Equal(t, record.ApplicationDate, staging.ApplicationDate)
	assert.Nil(t, staging.ApprovalDate)
}

func TestCleanColumnsExtendRawColumns(t *testing.T) {
	require.Len(t, RawColumns, 15)
	require.Len(t, CleanColumns, 18)
	assert.Equal(t, RawColumns, CleanColumns[:len(RawColumns)])
	assert.Equal(t, []string{"loan_to_income", "total_interest", "loan_category"}, CleanColumns[len(RawColumns):])
}
