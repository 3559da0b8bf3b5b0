package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"loancli/internal/errors"
	"loancli/pkg/contracts/domain"
)

// DateFormat is the date layout used across raw and cleaned files.
const DateFormat = "2006-01-02"

// LoadStagingCSV reads a raw loan extract into staging records, one per
// line, preserving field order. No validation beyond type coercion happens
// here; empty cells become nil fields. Any previous staging contents are the
// caller's to discard — this always returns a fresh slice.
func LoadStagingCSV(path string, logger *slog.Logger) ([]domain.StagingRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("loading raw loan data",
		slog.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open input file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(domain.RawColumns)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read header row", err).
			WithContext("path", path)
	}
	if err := checkHeader(header, domain.RawColumns); err != nil {
		return nil, err
	}

	var records []domain.StagingRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewParsingError("malformed input row", err).
				WithContext("line", line)
		}

		record, err := parseStagingRow(row)
		if err != nil {
			return nil, errors.NewParsingError("malformed input row", err).
				WithContext("line", line)
		}
		records = append(records, record)
	}

	logger.Info("loaded raw loan data",
		slog.String("path", path),
		slog.Int("record_count", len(records)),
		slog.Int("column_count", len(domain.RawColumns)))

	return records, nil
}

// LoadCleanCSV reads a cleaned snapshot back into loan records. The file
// must carry the cleaned header (raw columns plus the derived columns).
func LoadCleanCSV(path string, logger *slog.Logger) ([]domain.LoanRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("loading cleaned loan data",
		slog.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open cleaned file", err).
			WithContext("path", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(domain.CleanColumns)

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read header row", err).
			WithContext("path", path)
	}
	if err := checkHeader(header, domain.CleanColumns); err != nil {
		return nil, err
	}

	var records []domain.LoanRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewParsingError("malformed cleaned row", err).
				WithContext("line", line)
		}

		record, err := parseCleanRow(row)
		if err != nil {
			return nil, errors.NewParsingError("malformed cleaned row", err).
				WithContext("line", line)
		}
		records = append(records, record)
	}

	logger.Info("loaded cleaned loan data",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	return records, nil
}

// checkHeader verifies the header matches the expected column set exactly,
// order included. A UTF-8 BOM on the first cell is tolerated.
func checkHeader(header, expected []string) error {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	if len(header) != len(expected) {
		return errors.NewParsingError(
			fmt.Sprintf("header has %d columns, expected %d", len(header), len(expected)), nil)
	}
	for i, col := range header {
		if strings.TrimSpace(col) != expected[i] {
			return errors.NewParsingError(
				fmt.Sprintf("unexpected column %q at position %d, expected %q",
					strings.TrimSpace(col), i, expected[i]), nil)
		}
	}
	return nil
}

func parseStagingRow(row []string) (domain.StagingRecord, error) {
	var record domain.StagingRecord
	var err error

	record.LoanID = optString(row[0])
	record.CustomerID = optString(row[1])
	if record.LoanAmount, err = optFloat(row[2], "loan_amount"); err != nil {
		return record, err
	}
	if record.InterestRate, err = optFloat(row[3], "interest_rate"); err != nil {
		return record, err
	}
	if record.LoanTerm, err = optInt(row[4], "loan_term"); err != nil {
		return record, err
	}
	if record.MonthlyPayment, err = optFloat(row[5], "monthly_payment"); err != nil {
		return record, err
	}
	record.LoanStatus = optString(row[6])
	record.Purpose = optString(row[7])
	if record.CreditScore, err = optFloat(row[8], "credit_score"); err != nil {
		return record, err
	}
	if record.AnnualIncome, err = optFloat(row[9], "annual_income"); err != nil {
		return record, err
	}
	if record.EmploymentLength, err = optInt(row[10], "employment_length"); err != nil {
		return record, err
	}
	if record.DebtToIncome, err = optFloat(row[11], "debt_to_income"); err != nil {
		return record, err
	}
	if record.ApplicationDate, err = optDate(row[12], "application_date"); err != nil {
		return record, err
	}
	if record.ApprovalDate, err = optDate(row[13], "approval_date"); err != nil {
		return record, err
	}
	if record.DisbursementDate, err = optDate(row[14], "disbursement_date"); err != nil {
		return record, err
	}

	return record, nil
}

func parseCleanRow(row []string) (domain.LoanRecord, error) {
	staging, err := parseStagingRow(row[:len(domain.RawColumns)])
	if err != nil {
		return domain.LoanRecord{}, err
	}

	// The cleaned snapshot must not contain nulls in validated fields.
	required := map[string]bool{
		"loan_id":         staging.LoanID != nil,
		"customer_id":     staging.CustomerID != nil,
		"loan_amount":     staging.LoanAmount != nil,
		"interest_rate":   staging.InterestRate != nil,
		"loan_term":       staging.LoanTerm != nil,
		"monthly_payment": staging.MonthlyPayment != nil,
		"loan_status":     staging.LoanStatus != nil,
		"credit_score":    staging.CreditScore != nil,
		"annual_income":   staging.AnnualIncome != nil,
	}
	for col, present := range required {
		if !present {
			return domain.LoanRecord{}, fmt.Errorf("cleaned snapshot has null %s", col)
		}
	}

	record := domain.LoanRecord{
		LoanID:           *staging.LoanID,
		CustomerID:       *staging.CustomerID,
		LoanAmount:       *staging.LoanAmount,
		InterestRate:     *staging.InterestRate,
		LoanTerm:         *staging.LoanTerm,
		MonthlyPayment:   *staging.MonthlyPayment,
		LoanStatus:       *staging.LoanStatus,
		CreditScore:      *staging.CreditScore,
		AnnualIncome:     *staging.AnnualIncome,
		DebtToIncome:     staging.DebtToIncome,
		ApplicationDate:  staging.ApplicationDate,
		ApprovalDate:     staging.ApprovalDate,
		DisbursementDate: staging.DisbursementDate,
	}
	if staging.Purpose != nil {
		record.Purpose = *staging.Purpose
	}
	if staging.EmploymentLength != nil {
		record.EmploymentLength = *staging.EmploymentLength
	}

	base := len(domain.RawColumns)
	if record.LoanToIncome, err = reqFloat(row[base], "loan_to_income"); err != nil {
		return record, err
	}
	if record.TotalInterest, err = reqFloat(row[base+1], "total_interest"); err != nil {
		return record, err
	}
	record.LoanCategory = strings.TrimSpace(row[base+2])

	return record, nil
}

func optString(cell string) *string {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func optFloat(cell, column string) (*float64, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q", column, cell)
	}
	return &value, nil
}

func optInt(cell, column string) (*int, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil, nil
	}
	// Whole-year columns sometimes arrive as "5.0" from upstream exports.
	value, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64)
	if err != nil || value != float64(int(value)) {
		return nil, fmt.Errorf("invalid %s value %q", column, cell)
	}
	whole := int(value)
	return &whole, nil
}

// optDate coerces unparseable dates to nil instead of failing the load;
// date columns are not range-validated and a bad date must not sink an
// otherwise sound row.
func optDate(cell, _ string) (*time.Time, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil, nil
	}
	value, err := time.Parse(DateFormat, trimmed)
	if err != nil {
		return nil, nil
	}
	return &value, nil
}

func reqFloat(cell, column string) (float64, error) {
	value, err := optFloat(cell, column)
	if err != nil {
		return 0, err
	}
	if value == nil {
		return 0, fmt.Errorf("missing %s value", column)
	}
	return *value, nil
}
