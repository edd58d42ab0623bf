// Command winnow is the CLI for cleaning duplicate movies out of a Jellyfin
// library: it scans, deletes losers, prunes leftover folders, and keeps a
// local history of every run.
package main
