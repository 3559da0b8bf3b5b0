package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"loancli/internal/reports"
)

// ExcelWriter bundles report tables into a single XLSX workbook, one sheet
// per report.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer instance
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteWorkbook writes all tables into one workbook at path. Sheet names
// come from each table's title; Excel caps sheet names at 31 characters.
func (w *ExcelWriter) WriteWorkbook(path string, tables []reports.Table) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to export")
	}

	w.logger.Info("writing report workbook",
		slog.String("path", path),
		slog.Int("table_count", len(tables)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		sheet := sheetName(table.Title)
		if i == 0 {
			// Rename the default sheet instead of leaving an empty one.
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
			}
		}

		if err := writeSheet(f, sheet, table); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("wrote report workbook", slog.String("path", path))
	return nil
}

func writeSheet(f *excelize.File, sheet string, table reports.Table) error {
	for col, header := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	for rowIdx, row := range table.Rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to address data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("failed to write data cell: %w", err)
			}
		}
	}

	return nil
}

// sheetName trims a title to Excel's 31-character sheet name limit.
func sheetName(title string) string {
	if len(title) > 31 {
		return title[:31]
	}
	return title
}
