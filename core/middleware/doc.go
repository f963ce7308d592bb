// Package middleware groups the HTTP middleware used by the server assembly.
//
// Subpackages:
//   - rayid: assigns a unique request id (ray_id) to every request for log
//     correlation and echoes it in the X-Ray-ID response header.
//   - auth: API-key protection for the import/query API.
package middleware
