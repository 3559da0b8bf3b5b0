package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"loancli/internal/reports"
	"loancli/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options, creating the
// parent directory if needed and truncating any previous file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteTable writes one report table as a CSV file named after the table
// inside dir, returning the written path.
func (w *CSVWriter) WriteTable(dir string, table reports.Table) (string, error) {
	path := filepath.Join(dir, table.Name+".csv")
	err := w.WriteCSV(path, WriteOptions{
		Headers: table.Columns,
		Records: table.Rows,
	})
	if err != nil {
		return "", fmt.Errorf("write table %s: %w", table.Name, err)
	}
	return path, nil
}

// WriteCleanSnapshot persists the cleaned records with the cleaned header.
// Raw numeric fields keep their exact values; the derived monetary columns
// are written with their defined precision (4 and 2 decimal places).
func (w *CSVWriter) WriteCleanSnapshot(filePath string, records []domain.LoanRecord) error {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.LoanID,
			r.CustomerID,
			formatFloat(r.LoanAmount),
			formatFloat(r.InterestRate),
			formatInt(r.LoanTerm),
			formatFloat(r.MonthlyPayment),
			r.LoanStatus,
			r.Purpose,
			formatFloat(r.CreditScore),
			formatFloat(r.AnnualIncome),
			formatInt(r.EmploymentLength),
			formatOptFloat(r.DebtToIncome),
			formatDate(r.ApplicationDate),
			formatDate(r.ApprovalDate),
			formatDate(r.DisbursementDate),
			formatFixed(r.LoanToIncome, 4),
			formatFixed(r.TotalInterest, 2),
			r.LoanCategory,
		})
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers: domain.CleanColumns,
		Records: rows,
	})
}
