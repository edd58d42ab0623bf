// Package cleanuprun orchestrates one duplicate cleanup cycle: fetch the
// movie library, resolve duplicate groups, execute deletions, persist the run
// to history, and notify.
//
// Runs are serialized twice over: an in-process mutex covers concurrent
// callers inside one process, and a file lock in the state directory covers
// concurrent processes, since disjoint invocations would otherwise race on
// filesystem deletes.
package cleanuprun
