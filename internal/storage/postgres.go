// Package storage persists staging and cleaned snapshots to Postgres.
//
// Persistence is optional — it only runs when a DSN is configured — and
// follows drop-and-recreate semantics: each run replaces the tables
// wholesale so a failed run can never leave a half-written snapshot, only
// the previous one.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"loancli/internal/errors"
	"loancli/pkg/contracts/domain"
)

const (
	stagingTable = "loans_staging"
	cleanTable   = "loans_clean"

	stagingDDL = `
		CREATE TABLE loans_staging (
			loan_id           TEXT,
			customer_id       TEXT,
			loan_amount       DOUBLE PRECISION,
			interest_rate     DOUBLE PRECISION,
			loan_term         INTEGER,
			monthly_payment   DOUBLE PRECISION,
			loan_status       TEXT,
			purpose           TEXT,
			credit_score      DOUBLE PRECISION,
			annual_income     DOUBLE PRECISION,
			employment_length INTEGER,
			debt_to_income    DOUBLE PRECISION,
			application_date  DATE,
			approval_date     DATE,
			disbursement_date DATE
		)`

	cleanDDL = `
		CREATE TABLE loans_clean (
			loan_id           TEXT NOT NULL,
			customer_id       TEXT NOT NULL,
			loan_amount       DOUBLE PRECISION NOT NULL,
			interest_rate     DOUBLE PRECISION NOT NULL,
			loan_term         INTEGER NOT NULL,
			monthly_payment   DOUBLE PRECISION NOT NULL,
			loan_status       TEXT NOT NULL,
			purpose           TEXT,
			credit_score      DOUBLE PRECISION NOT NULL,
			annual_income     DOUBLE PRECISION NOT NULL,
			employment_length INTEGER NOT NULL,
			debt_to_income    DOUBLE PRECISION,
			application_date  DATE,
			approval_date     DATE,
			disbursement_date DATE,
			loan_to_income    DOUBLE PRECISION NOT NULL,
			total_interest    DOUBLE PRECISION NOT NULL,
			loan_category     TEXT NOT NULL
		)`
)

// Store provides database operations over the loan tables
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open connects to Postgres and verifies the connection
func Open(dsn string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.NewStorageError("failed to open database connection", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.NewStorageError("failed to ping database", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceStaging drops and recreates the staging table, then bulk-loads the
// records inside one transaction.
func (s *Store) ReplaceStaging(ctx context.Context, records []domain.StagingRecord) error {
	columns := domain.RawColumns
	return s.replace(ctx, stagingTable, stagingDDL, columns, len(records), func(stmt *sql.Stmt, i int) error {
		r := records[i]
		_, err := stmt.ExecContext(ctx,
			r.LoanID, r.CustomerID, r.LoanAmount, r.InterestRate, r.LoanTerm,
			r.MonthlyPayment, r.LoanStatus, r.Purpose, r.CreditScore,
			r.AnnualIncome, r.EmploymentLength, r.DebtToIncome,
			r.ApplicationDate, r.ApprovalDate, r.DisbursementDate)
		return err
	})
}

// ReplaceClean drops and recreates the cleaned table, then bulk-loads the
// records inside one transaction.
func (s *Store) ReplaceClean(ctx context.Context, records []domain.LoanRecord) error {
	columns := domain.CleanColumns
	return s.replace(ctx, cleanTable, cleanDDL, columns, len(records), func(stmt *sql.Stmt, i int) error {
		r := records[i]
		_, err := stmt.ExecContext(ctx,
			r.LoanID, r.CustomerID, r.LoanAmount, r.InterestRate, r.LoanTerm,
			r.MonthlyPayment, r.LoanStatus, r.Purpose, r.CreditScore,
			r.AnnualIncome, r.EmploymentLength, r.DebtToIncome,
			r.ApplicationDate, r.ApprovalDate, r.DisbursementDate,
			r.LoanToIncome, r.TotalInterest, r.LoanCategory)
		return err
	})
}

// replace runs the drop/create/copy cycle for one table.
func (s *Store) replace(ctx context.Context, table, ddl string, columns []string, count int, bind func(*sql.Stmt, int) error) error {
	s.logger.InfoContext(ctx, "replacing table",
		slog.String("table", table),
		slog.Int("record_count", count))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
		return errors.NewStorageError("failed to drop table", err).WithContext("table", table)
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return errors.NewStorageError("failed to create table", err).WithContext("table", table)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(table, columns...))
	if err != nil {
		return errors.NewStorageError("failed to prepare bulk copy", err).WithContext("table", table)
	}

	for i := 0; i < count; i++ {
		if err := bind(stmt, i); err != nil {
			stmt.Close()
			return errors.NewStorageError("failed to copy record", err).WithContext("row", i)
		}
	}

	// Flush the copy buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return errors.NewStorageError("failed to flush bulk copy", err).WithContext("table", table)
	}
	if err := stmt.Close(); err != nil {
		return errors.NewStorageError("failed to close bulk copy", err).WithContext("table", table)
	}

	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("failed to commit transaction", err).WithContext("table", table)
	}

	s.logger.InfoContext(ctx, "replaced table",
		slog.String("table", table),
		slog.Int("record_count", count))

	return nil
}

// Counts returns the row counts of both tables
func (s *Store) Counts(ctx context.Context) (staging, clean int64, err error) {
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM loans_staging").Scan(&staging); err != nil {
		return 0, 0, errors.NewStorageError("failed to count staging rows", err)
	}
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM loans_clean").Scan(&clean); err != nil {
		return 0, 0, errors.NewStorageError("failed to count clean rows", err)
	}
	return staging, clean, nil
}
