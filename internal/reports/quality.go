package reports

import (
	"context"
	"log/slog"
	"sort"

	"loancli/pkg/contracts/domain"
)

// QualityReport holds the summary metrics computed over a cleaned snapshot
// for manual inspection. It is not meant for programmatic consumption.
type QualityReport struct {
	TotalRecords    int
	UniqueCustomers int
	// DateRange is the application-date span as "min to max", or "n/a" when
	// no record carries a date.
	DateRange string
	// AvgLoanAmount is currency-formatted, e.g. "$8421.55".
	AvgLoanAmount   string
	AvgInterestRate float64
	AvgCreditScore  float64

	StatusCounts  []ValueCount
	PurposeCounts []ValueCount
}

// ValueCount is one value of a categorical column with its frequency.
type ValueCount struct {
	Value string
	Count int
}

// BuildQualityReport computes the quality metrics over a cleaned snapshot.
func BuildQualityReport(records []domain.LoanRecord) QualityReport {
	report := QualityReport{
		TotalRecords: len(records),
		DateRange:    "n/a",
	}

	customers := make(map[string]struct{})
	statuses := make(map[string]int)
	purposes := make(map[string]int)
	var amountSum, rateSum, scoreSum float64
	var minDate, maxDate string

	for _, record := range records {
		customers[record.CustomerID] = struct{}{}
		statuses[record.LoanStatus]++
		if record.Purpose != "" {
			purposes[record.Purpose]++
		}
		amountSum += record.LoanAmount
		rateSum += record.InterestRate
		scoreSum += record.CreditScore

		if record.ApplicationDate != nil {
			date := record.ApplicationDate.Format("2006-01-02")
			if minDate == "" || date < minDate {
				minDate = date
			}
			if date > maxDate {
				maxDate = date
			}
		}
	}

	report.UniqueCustomers = len(customers)
	if minDate != "" {
		report.DateRange = minDate + " to " + maxDate
	}
	report.AvgLoanAmount = formatCurrency(average(amountSum, len(records)))
	report.AvgInterestRate = average(rateSum, len(records))
	report.AvgCreditScore = average(scoreSum, len(records))
	report.StatusCounts = sortedCounts(statuses)
	report.PurposeCounts = sortedCounts(purposes)

	return report
}

// Log writes the quality report to the logger, one metric per line.
func (q QualityReport) Log(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.InfoContext(ctx, "data quality report",
		slog.Int("total_records", q.TotalRecords),
		slog.Int("unique_customers", q.UniqueCustomers),
		slog.String("date_range", q.DateRange),
		slog.String("avg_loan_amount", q.AvgLoanAmount),
		slog.Float64("avg_interest_rate", q.AvgInterestRate),
		slog.Float64("avg_credit_score", q.AvgCreditScore))

	for _, status := range q.StatusCounts {
		logger.InfoContext(ctx, "loan status distribution",
			slog.String("status", status.Value),
			slog.Int("count", status.Count))
	}
	for _, purpose := range q.PurposeCounts {
		logger.InfoContext(ctx, "loan purpose distribution",
			slog.String("purpose", purpose.Value),
			slog.Int("count", purpose.Count))
	}
}

// Table renders the scalar metrics as a two-column table.
func (q QualityReport) Table() Table {
	return Table{
		Name:    "quality_report",
		Title:   "Data Quality Report",
		Columns: []string{"metric", "value"},
		Rows: [][]string{
			{"total_records", formatCount(q.TotalRecords)},
			{"unique_customers", formatCount(q.UniqueCustomers)},
			{"date_range", q.DateRange},
			{"avg_loan_amount", q.AvgLoanAmount},
			{"avg_interest_rate", formatRate(q.AvgInterestRate)},
			{"avg_credit_score", formatScore(q.AvgCreditScore)},
		},
	}
}

// sortedCounts orders counts descending, value ascending on ties.
func sortedCounts(counts map[string]int) []ValueCount {
	out := make([]ValueCount, 0, len(counts))
	for value, count := range counts {
		out = append(out, ValueCount{Value: value, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}
