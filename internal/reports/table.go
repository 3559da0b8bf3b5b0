package reports

import (
	"fmt"
	"strconv"
)

// Table is the tabular result of one report: named columns plus string
// cells, ready for CSV or workbook export.
type Table struct {
	// Name is a file-safe identifier, e.g. "credit_band_analysis".
	Name string
	// Title is the human-readable report title.
	Title string
	// Columns holds the header row.
	Columns []string
	// Rows holds the data rows, each the same width as Columns.
	Rows [][]string
}

func formatCount(n int) string {
	return strconv.Itoa(n)
}

func formatAmount(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatRate(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatPercent renders a percentage with two decimals, e.g. "12.50".
func formatPercent(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

func formatScore(f float64) string {
	return fmt.Sprintf("%.0f", f)
}

// formatCurrency renders a dollar amount, e.g. "$8123.45".
func formatCurrency(f float64) string {
	return fmt.Sprintf("$%.2f", f)
}

func percentOf(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
