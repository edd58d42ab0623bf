// Package notifications delivers cleanup events via ntfy.
//
// The default implementation publishes to the topic configured in config.toml
// and gracefully degrades to a no-op when notifications are disabled. Cleanup
// code depends only on the small Service interface, so alternative transports
// slot in without touching callers.
package notifications
