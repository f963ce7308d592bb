// Package server holds the HTTP server configuration section.
//
// The actual server assembly (Fiber app, middleware, feature routes) lives in
// the start command; this package only defines the settings it consumes.
package server
