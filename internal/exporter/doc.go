// Package exporter writes cleaned snapshots and report tables to disk.
//
// CSV is the primary output format; an XLSX workbook bundling every report
// into one file is available for hand-off to spreadsheet users. Writers
// create missing directories and truncate existing files — outputs are
// always rebuilt whole, never updated in place.
package exporter
