package exporter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loancli/internal/dataprocessing"
	"loancli/internal/reports"
	"loancli/pkg/contracts/domain"
)

func sampleTable() reports.Table {
	return reports.Table{
		Name:    "status_distribution",
		Title:   "Loan Status Distribution",
		Columns: []string{"loan_status", "total_loans"},
		Rows: [][]string{
			{"Current", "2"},
			{"Charged Off", "1"},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")

	err := NewCSVWriter(nil).WriteCSV(path, WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "x"}, {"2", "y"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,x\n2,y\n", string(data))
}

func TestWriteCSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := NewCSVWriter(nil).WriteCSV(path, WriteOptions{
		Headers:   []string{"a"},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFa\n", string(data))
}

func TestWriteCSVTruncatesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	writer := NewCSVWriter(nil)

	require.NoError(t, writer.WriteCSV(path, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}, {"2"}, {"3"}},
	}))
	require.NoError(t, writer.WriteCSV(path, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"9"}},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n9\n", string(data))
}

func TestWriteTable(t *testing.T) {
	dir := t.TempDir()

	path, err := NewCSVWriter(nil).WriteTable(dir, sampleTable())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "status_distribution.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "loan_status,total_loans\nCurrent,2\nCharged Off,1\n", string(data))
}

func TestWriteCleanSnapshotRoundTrip(t *testing.T) {
	applied := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	dti := 0.25
	records := []domain.LoanRecord{
		{
			LoanID:           "L001",
			CustomerID:       "C001",
			LoanAmount:       10000,
			InterestRate:     7.5,
			LoanTerm:         36,
			MonthlyPayment:   300,
			LoanStatus:       domain.StatusCurrent,
			Purpose:          "debt_consolidation",
			CreditScore:      712,
			AnnualIncome:     60000,
			EmploymentLength: 4,
			DebtToIncome:     &dti,
			ApplicationDate:  &applied,
			LoanToIncome:     0.1667,
			TotalInterest:    800,
			LoanCategory:     domain.CategoryMedium,
		},
		{
			LoanID:         "L002",
			CustomerID:     "C002",
			LoanAmount:     5000,
			InterestRate:   9.1,
			LoanTerm:       24,
			MonthlyPayment: 228.09,
			LoanStatus:     domain.StatusChargedOff,
			CreditScore:    640,
			AnnualIncome:   31000,
			LoanToIncome:   0.1613,
			TotalInterest:  474.16,
			LoanCategory:   domain.CategorySmall,
		},
	}

	path := filepath.Join(t.TempDir(), "loan_data_cleaned.csv")
	require.NoError(t, NewCSVWriter(nil).WriteCleanSnapshot(path, records))

	loaded, err := dataprocessing.LoadCleanCSV(path, nil)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, records[0], loaded[0])
	assert.Equal(t, records[1], loaded[1])
}
