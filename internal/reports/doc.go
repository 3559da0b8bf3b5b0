// Package reports contains the read-only analytics over a cleaned loan
// snapshot: a small quality report for manual inspection and ten independent
// aggregate reports (portfolio totals, status distribution, credit bands,
// purpose performance, time trends, segmentation, risk factors,
// profitability, term comparison, tenure impact).
//
// Every report is a pure function of the record slice. None depend on each
// other's output, so they can run in any order against the same snapshot.
package reports
