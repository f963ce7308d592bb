// Package health exposes an operational health check.
//
// GET /health verifies that the patients and payments tables exist with the
// columns the models require, and that the configured archive bucket is
// reachable. It answers 200 when everything checks out and 503 otherwise,
// always with a full report body.
package health
