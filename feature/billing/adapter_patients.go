package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"patient-sync/core/reconcile"
	"patient-sync/feature/billing/models"

	"gorm.io/gorm"
)

// patientAdapter implements reconcile.Adapter for patient records.
type patientAdapter struct{}

func newPatientAdapter() *patientAdapter {
	return &patientAdapter{}
}

func (a *patientAdapter) Name() string {
	return "patient"
}

func (a *patientAdapter) Parse(raw json.RawMessage) (reconcile.Record, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &reconcile.MalformedRecordError{Entity: "patient", Field: "record", Reason: "not a JSON object"}
	}
	rec, err := NormalizePatient(data)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (a *patientAdapter) ExternalID(rec reconcile.Record) string {
	return rec.(*models.Patient).ExternalID
}

// FilterReferences is a no-op: patients carry no foreign references.
func (a *patientAdapter) FilterReferences(ctx context.Context, tx *gorm.DB, recs []reconcile.Record) ([]reconcile.Record, int, error) {
	return recs, 0, nil
}

func (a *patientAdapter) LoadExisting(ctx context.Context, tx *gorm.DB, externalIDs []string) (map[string]reconcile.Record, error) {
	var rows []models.Patient
	if err := tx.WithContext(ctx).Where("external_id IN ?", externalIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load existing patients: %w", err)
	}

	existing := make(map[string]reconcile.Record, len(rows))
	for i := range rows {
		existing[rows[i].ExternalID] = &rows[i]
	}
	return existing, nil
}

func (a *patientAdapter) Insert(ctx context.Context, tx *gorm.DB, rec reconcile.Record) error {
	patient := rec.(*models.Patient)
	patient.Deleted = false
	if err := tx.WithContext(ctx).Create(patient).Error; err != nil {
		return fmt.Errorf("failed to insert patient %s: %w", patient.ExternalID, err)
	}
	return nil
}

// Equal compares entity fields by name, excluding the surrogate id and the
// audit timestamps. A soft-deleted row never equals an incoming live record,
// which is what makes reintroduction revive it.
func (a *patientAdapter) Equal(existing, incoming reconcile.Record) bool {
	cur := existing.(*models.Patient)
	in := incoming.(*models.Patient)

	return !cur.Deleted &&
		cur.FirstName == in.FirstName &&
		cur.LastName == in.LastName &&
		cur.MiddleName == in.MiddleName &&
		cur.DateOfBirth.Equal(in.DateOfBirth)
}

// Update fully overwrites the entity fields; present values are not merged.
func (a *patientAdapter) Update(ctx context.Context, tx *gorm.DB, existing, incoming reconcile.Record) error {
	cur := existing.(*models.Patient)
	in := incoming.(*models.Patient)

	updates := map[string]any{
		"first_name":    in.FirstName,
		"last_name":     in.LastName,
		"middle_name":   in.MiddleName,
		"date_of_birth": in.DateOfBirth,
		"deleted":       false,
	}

	if err := tx.WithContext(ctx).Model(&models.Patient{}).Where("id = ?", cur.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update patient %s: %w", in.ExternalID, err)
	}
	return nil
}

func (a *patientAdapter) SoftDelete(ctx context.Context, tx *gorm.DB, externalIDs []string) (int64, error) {
	res := tx.WithContext(ctx).Model(&models.Patient{}).
		Where("external_id IN ? AND deleted = ?", externalIDs, false).
		Update("deleted", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to soft delete patients: %w", res.Error)
	}
	return res.RowsAffected, nil
}
