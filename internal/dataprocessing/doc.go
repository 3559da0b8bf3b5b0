// Package dataprocessing reads raw loan extracts into the staging form the
// cleaning pipeline consumes, and reads cleaned snapshots back for the
// reporting commands.
//
// Loading is deliberately strict: a missing file, a header that does not
// match the expected fifteen columns, or a cell that cannot be parsed into
// its declared type aborts the whole load. There are no partial successes at
// this layer — row-level problems are the cleaning pipeline's job, not the
// loader's.
package dataprocessing
