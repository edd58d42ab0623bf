// Package daemon runs winnowd: a single-instance background process that
// serves the HTTP API for triggering cleanup cycles and browsing run history.
package daemon
