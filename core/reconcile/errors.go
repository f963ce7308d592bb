package reconcile

import "fmt"

// MalformedRecordError reports a raw external record that failed
// normalization. It identifies the offending field and, when the payload
// still exposed one, carries the record's external id so the engine can
// soft-delete the previously synced row.
type MalformedRecordError struct {
	// Entity is the record kind (patient, payment).
	Entity string
	// Field is the required field that was missing or invalid.
	Field string
	// Reason describes why the field was rejected.
	Reason string
	// ExternalID is the recoverable external id, or "" when none was usable.
	ExternalID string
}

func (e *MalformedRecordError) Error() string {
	if e.ExternalID != "" {
		return fmt.Sprintf("malformed %s record %s: field %s: %s", e.Entity, e.ExternalID, e.Field, e.Reason)
	}
	return fmt.Sprintf("malformed %s record: field %s: %s", e.Entity, e.Field, e.Reason)
}

// UnresolvedReferenceError reports a record whose foreign reference does not
// resolve against persisted state. Such records are dropped, not
// soft-deleted.
type UnresolvedReferenceError struct {
	// Entity is the record kind.
	Entity string
	// ExternalID is the record's external id.
	ExternalID string
	// Reference is the surrogate id that failed to resolve.
	Reference int
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s record %s references unknown id %d", e.Entity, e.ExternalID, e.Reference)
}
