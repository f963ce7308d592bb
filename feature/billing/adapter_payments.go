package billing

import (
	"context"
	"encoding/json"
	"fmt"

	"patient-sync/core/reconcile"
	"patient-sync/feature/billing/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// paymentAdapter implements reconcile.Adapter for payment records.
type paymentAdapter struct {
	logger *zap.Logger
}

func newPaymentAdapter(logger *zap.Logger) *paymentAdapter {
	return &paymentAdapter{logger: logger}
}

func (a *paymentAdapter) Name() string {
	return "payment"
}

func (a *paymentAdapter) Parse(raw json.RawMessage) (reconcile.Record, error) {
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, &reconcile.MalformedRecordError{Entity: "payment", Field: "record", Reason: "not a JSON object"}
	}
	rec, err := NormalizePayment(data)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (a *paymentAdapter) ExternalID(rec reconcile.Record) string {
	return rec.(*models.Payment).ExternalID
}

// FilterReferences drops payments whose patient surrogate id does not exist.
// The upstream feed references patients by surrogate id, so this is a real
// existence check against the patients table, inside the batch transaction.
// Dropped payments are logged and never contribute to the delete set.
func (a *paymentAdapter) FilterReferences(ctx context.Context, tx *gorm.DB, recs []reconcile.Record) ([]reconcile.Record, int, error) {
	if len(recs) == 0 {
		return recs, 0, nil
	}

	idSet := make(map[int]struct{}, len(recs))
	for _, rec := range recs {
		idSet[rec.(*models.Payment).PatientID] = struct{}{}
	}
	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	var found []int
	if err := tx.WithContext(ctx).Model(&models.Patient{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to resolve patient references: %w", err)
	}
	known := make(map[int]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	kept := make([]reconcile.Record, 0, len(recs))
	dropped := 0
	for _, rec := range recs {
		payment := rec.(*models.Payment)
		if _, ok := known[payment.PatientID]; !ok {
			refErr := &reconcile.UnresolvedReferenceError{
				Entity:     "payment",
				ExternalID: payment.ExternalID,
				Reference:  payment.PatientID,
			}
			a.logger.Warn("Dropping payment", zap.Error(refErr))
			dropped++
			continue
		}
		kept = append(kept, rec)
	}
	return kept, dropped, nil
}

func (a *paymentAdapter) LoadExisting(ctx context.Context, tx *gorm.DB, externalIDs []string) (map[string]reconcile.Record, error) {
	var rows []models.Payment
	if err := tx.WithContext(ctx).Where("external_id IN ?", externalIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load existing payments: %w", err)
	}

	existing := make(map[string]reconcile.Record, len(rows))
	for i := range rows {
		existing[rows[i].ExternalID] = &rows[i]
	}
	return existing, nil
}

func (a *paymentAdapter) Insert(ctx context.Context, tx *gorm.DB, rec reconcile.Record) error {
	payment := rec.(*models.Payment)
	payment.Deleted = false
	if err := tx.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to insert payment %s: %w", payment.ExternalID, err)
	}
	return nil
}

// Equal compares entity fields by name, excluding the surrogate id and the
// audit timestamps.
func (a *paymentAdapter) Equal(existing, incoming reconcile.Record) bool {
	cur := existing.(*models.Payment)
	in := incoming.(*models.Payment)

	return !cur.Deleted &&
		cur.Amount == in.Amount &&
		cur.PatientID == in.PatientID
}

// Update fully overwrites the entity fields; present values are not merged.
func (a *paymentAdapter) Update(ctx context.Context, tx *gorm.DB, existing, incoming reconcile.Record) error {
	cur := existing.(*models.Payment)
	in := incoming.(*models.Payment)

	updates := map[string]any{
		"amount":     in.Amount,
		"patient_id": in.PatientID,
		"deleted":    false,
	}

	if err := tx.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", cur.ID).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update payment %s: %w", in.ExternalID, err)
	}
	return nil
}

func (a *paymentAdapter) SoftDelete(ctx context.Context, tx *gorm.DB, externalIDs []string) (int64, error) {
	res := tx.WithContext(ctx).Model(&models.Payment{}).
		Where("external_id IN ? AND deleted = ?", externalIDs, false).
		Update("deleted", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to soft delete payments: %w", res.Error)
	}
	return res.RowsAffected, nil
}
