// Package database provides SQLite-based storage for cartsync run history.
//
// Each sync run is recorded with its per-item outcomes so that past runs
// can be reviewed later: what was added, what needs review, and where a
// bot block cut a run short (the skipped tail is the re-run starting
// point).
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
// 1. No external dependencies - the database is a single file
// 2. CGO-free implementation allows easy cross-compilation
// 3. Sufficient performance for our use case
// 4. WAL mode provides good concurrent read performance
package database
