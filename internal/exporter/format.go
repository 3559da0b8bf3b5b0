package exporter

import (
	"fmt"
	"strconv"
	"time"
)

// formatFloat renders a float with no trailing-zero padding, preserving the
// exact value for round-tripping through CSV.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatFixed renders a float with a fixed number of decimal places.
func formatFixed(f float64, places int) string {
	return fmt.Sprintf("%.*f", places, f)
}

func formatInt(i int) string {
	return strconv.Itoa(i)
}

// formatDate renders an optional date, empty when absent.
func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatOptFloat renders an optional float, empty when absent.
func formatOptFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
