// Package services defines shared utilities consumed by winnow's cleanup
// pipeline and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper that tag failures with a
//     consistent classification (configuration vs transient vs external tool).
//
// Use these helpers when wiring new logic so operational behaviour stays
// uniform across the tool.
package services
