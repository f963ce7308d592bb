// Package reconcile implements the batch import engine that keeps the local
// store in step with the authoritative external feed.
//
// The engine is generic over entity kind: feature packages supply an Adapter
// that knows how to parse raw records, load persisted rows, and apply
// mutations, while the engine owns the algorithm:
//
//  1. Partition the raw batch. Records that normalize cleanly are queued for
//     reconciliation (the last occurrence of an external id wins). Records
//     that fail normalization but still expose a usable external id are
//     queued for soft deletion; failures with no recoverable id are dropped.
//  2. Inside a single database transaction: filter out records with
//     unresolvable foreign references, load the existing rows keyed by
//     external id, insert fresh records, and update existing rows only when
//     an entity field actually differs. Updating a soft-deleted row revives
//     it. Finally flip the deleted flag on rows queued for soft deletion.
//  3. Return a Summary of batch-level counts.
//
// A malformed record never aborts the batch. A storage fault aborts and
// rolls back the whole transaction, so no partial writes survive.
//
// Rows absent from a batch are deliberately left untouched: the feed
// delivers partial batches, so soft deletion is triggered only by records
// that explicitly arrive malformed.
package reconcile
