// Package database provides SQLite-based storage for extraction history.
//
// Every successful extraction can be journaled here, which gives the
// history command something to answer: when was this patient last
// extracted, from which file, with what total DLP. The full consolidated
// record is stored as JSON alongside a few indexed columns for querying.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
