// Package operations implements the cleaning pipeline: an ordered sequence
// of set-based transforms that turns a raw staging snapshot into a
// validated, deduplicated, enriched working snapshot.
//
// Steps run in a fixed order because later steps assume the invariants
// earlier ones establish — the imputation mean, for example, is computed
// strictly after critical-null removal and never includes values it imputed
// itself. A step either completes over the whole set or fails the run;
// individual rows are only ever removed by a filtering step, never skipped
// silently later.
package operations
