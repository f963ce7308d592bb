// Package utils provides loose-typed value coercion helpers.
//
// External payloads arrive as decoded JSON (map[string]any), where numbers
// may be float64 or json.Number and identifiers may be quoted or bare.
// These helpers normalize such values with explicit error reporting so the
// record transformer can name the field that failed.
package utils
