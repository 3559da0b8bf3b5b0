package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loancli/pkg/contracts/domain"
)

func date(v string) *time.Time {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		panic(err)
	}
	return &t
}

// loan builds a cleaned record with unremarkable defaults.
func loan(id string, mutate func(*domain.LoanRecord)) domain.LoanRecord {
	record := domain.LoanRecord{
		LoanID:           id,
		CustomerID:       "C-" + id,
		LoanAmount:       12000,
		InterestRate:     7.5,
		LoanTerm:         36,
		MonthlyPayment:   373.27,
		LoanStatus:       domain.StatusCurrent,
		Purpose:          "debt_consolidation",
		CreditScore:      712,
		AnnualIncome:     64000,
		EmploymentLength: 4,
		ApplicationDate:  date("2024-03-15"),
		LoanToIncome:     0.1875,
		TotalInterest:    1437.72,
		LoanCategory:     domain.CategoryMedium,
	}
	if mutate != nil {
		mutate(&record)
	}
	return record
}

func TestBuildQualityReport(t *testing.T) {
	records := []domain.LoanRecord{
		loan("L001", func(r *domain.LoanRecord) {
			r.LoanAmount = 10000
			r.InterestRate = 6
			r.CreditScore = 700
			r.ApplicationDate = date("2024-01-10")
		}),
		loan("L002", func(r *domain.LoanRecord) {
			r.LoanAmount = 20000
			r.InterestRate = 8
			r.CreditScore = 800
			r.LoanStatus = domain.StatusFullyPaid
			r.Purpose = "car"
			r.ApplicationDate = date("2024-05-20")
		}),
		loan("L003", func(r *domain.LoanRecord) {
			r.CustomerID = "C-L001"
			r.LoanAmount = 30000
			r.InterestRate = 10
			r.CreditScore = 600
			r.Purpose = ""
			r.ApplicationDate = nil
		}),
	}

	report := BuildQualityReport(records)

	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 2, report.UniqueCustomers)
	assert.Equal(t, "2024-01-10 to 2024-05-20", report.DateRange)
	assert.Equal(t, "$20000.00", report.AvgLoanAmount)
	assert.InDelta(t, 8.0, report.AvgInterestRate, 1e-9)
	assert.InDelta(t, 700.0, report.AvgCreditScore, 1e-9)

	// Current x2 then Fully Paid x1.
	require.Len(t, report.StatusCounts, 2)
	assert.Equal(t, ValueCount{Value: domain.StatusCurrent, Count: 2}, report.StatusCounts[0])
	assert.Equal(t, ValueCount{Value: domain.StatusFullyPaid, Count: 1}, report.StatusCounts[1])

	// Empty purposes are excluded; ties break alphabetically.
	require.Len(t, report.PurposeCounts, 2)
	assert.Equal(t, ValueCount{Value: "car", Count: 1}, report.PurposeCounts[0])
	assert.Equal(t, ValueCount{Value: "debt_consolidation", Count: 1}, report.PurposeCounts[1])
}

func TestBuildQualityReportEmpty(t *testing.T) {
	report := BuildQualityReport(nil)

	assert.Zero(t, report.TotalRecords)
	assert.Zero(t, report.UniqueCustomers)
	assert.Equal(t, "n/a", report.DateRange)
	assert.Equal(t, "$0.00", report.AvgLoanAmount)
	assert.Empty(t, report.StatusCounts)
	assert.Empty(t, report.PurposeCounts)
}

func TestQualityReportTable(t *testing.T) {
	table := BuildQualityReport([]domain.LoanRecord{loan("L001", nil)}).Table()

	assert.Equal(t, "quality_report", table.Name)
	assert.Equal(t, []string{"metric", "value"}, table.Columns)
	require.Len(t, table.Rows, 6)
	assert.Equal(t, []string{"total_records", "1"}, table.Rows[0])
	assert.Equal(t, []string{"avg_loan_amount", "$12000.00"}, table.Rows[3])
	assert.Equal(t, []string{"avg_credit_score", "712"}, table.Rows[5])
}
