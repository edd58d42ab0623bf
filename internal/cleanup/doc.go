// Package cleanup executes the deletion plan produced by the duplicate
// resolver: it removes discarded files, prunes directories left under the
// configured size threshold, and assembles the line-oriented report callers
// return to the user.
//
// Execution is serialized with an internal mutex; per-record failures are
// logged and skipped so one unreadable file never aborts the batch. Dry-run
// mode computes the identical report without touching the filesystem.
package cleanup
