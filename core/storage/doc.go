// Package storage provides the object storage client used for import batch
// archival.
//
// It wraps the Minio S3-compatible client behind a small interface so that
// features depend on the operations they use rather than the concrete SDK,
// and so tests can substitute the mock in storage/mocks.
//
// Storage is an optional collaborator: when no endpoint is configured the
// application runs without it and archival is skipped.
package storage
