// Package history persists completed cleanup runs in SQLite so operators can
// audit what winnow deleted and when.
//
// The Store records one row per run plus one row per deletion action, and the
// report text verbatim. The database is an append-only archive: rows are
// written once when a run finishes and never updated. Schema changes are
// applied through the embedded migrations directory.
package history
