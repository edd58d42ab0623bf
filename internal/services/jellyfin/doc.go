// Package jellyfin is a typed client for the subset of the Jellyfin HTTP API
// winnow consumes: listing movie items with provider ids and media stream
// details, and requesting a library refresh after cleanup.
//
// The client depends only on the HTTPDoer interface so tests can substitute
// httptest servers or stub transports. Quality metadata is read from typed
// response fields; no reflection against server internals is involved.
package jellyfin
