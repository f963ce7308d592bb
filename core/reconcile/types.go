package reconcile

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
)

// Record represents a normalized entity record with adapter-defined shape.
// Adapters define the concrete type and perform the assertions.
type Record any

// Adapter provides entity-specific logic for the import engine.
type Adapter interface {
	// Name is the entity kind identifier (used in logs and errors).
	Name() string

	// Parse normalizes one raw external record. On failure it returns a
	// *MalformedRecordError describing the offending field.
	Parse(raw json.RawMessage) (Record, error)

	// ExternalID extracts the reconciliation key from a normalized record.
	ExternalID(rec Record) string

	// FilterReferences removes records whose foreign references cannot be
	// resolved against persisted state. It returns the surviving records
	// and the number dropped. Adapters without references return the input
	// unchanged.
	FilterReferences(ctx context.Context, tx *gorm.DB, recs []Record) ([]Record, int, error)

	// LoadExisting fetches persisted rows for the given external ids,
	// keyed by external id. Soft-deleted rows are included so a later
	// batch can revive them.
	LoadExisting(ctx context.Context, tx *gorm.DB, externalIDs []string) (map[string]Record, error)

	// Insert persists a new record with deleted=false.
	Insert(ctx context.Context, tx *gorm.DB, rec Record) error

	// Equal compares entity fields of an existing row and an incoming
	// record, excluding the surrogate id and audit timestamps. The deleted
	// flag participates: a soft-deleted row never equals a live incoming
	// record.
	Equal(existing, incoming Record) bool

	// Update overwrites the entity fields of the existing row with the
	// incoming values. Implementations must clear the deleted flag.
	Update(ctx context.Context, tx *gorm.DB, existing, incoming Record) error

	// SoftDelete marks the rows with the given external ids as deleted and
	// returns how many rows changed.
	SoftDelete(ctx context.Context, tx *gorm.DB, externalIDs []string) (int64, error)
}

// Summary aggregates the outcome of one import batch. Imports report at
// batch level only; individual record outcomes are not itemized.
type Summary struct {
	// Received is the raw batch size.
	Received int `json:"received"`
	// Malformed counts records that failed normalization.
	Malformed int `json:"malformed"`
	// Inserted counts newly created rows.
	Inserted int `json:"inserted"`
	// Updated counts rows where at least one entity field changed.
	Updated int `json:"updated"`
	// Unchanged counts rows that matched the persisted state exactly.
	Unchanged int `json:"unchanged"`
	// SoftDeleted counts rows flipped to deleted by this batch.
	SoftDeleted int `json:"soft_deleted"`
	// Dropped counts records discarded without a trace: malformed records
	// with no recoverable external id and records with unresolved
	// references.
	Dropped int `json:"dropped"`
}
