// Package dedupe groups media records by provider identifier and ranks each
// group by quality so callers can keep the best copy and discard the rest.
//
// Ranking is a descending composite of (max stream height, max stream bitrate,
// file size on disk), resolved with a stable sort so records that tie on every
// key retain their input order. Records without the grouping provider id are
// excluded entirely; records with unreadable files rank with a zero size
// rather than failing.
package dedupe
