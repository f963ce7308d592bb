package billing

import (
	"context"
	"fmt"

	"patient-sync/feature/billing/models"
)

// ListPatients returns all non-deleted patients. When minAmount or
// maxAmount is given, results are restricted to patients whose sum of
// non-deleted payment amounts satisfies the bounds (inclusive). Patients
// with no live payments are excluded whenever either bound is supplied.
func (s *Service) ListPatients(ctx context.Context, minAmount, maxAmount *float64) ([]models.Patient, error) {
	q := s.db.WithContext(ctx).Model(&models.Patient{}).
		Select("patients.*").
		Where("patients.deleted = ?", false)

	if minAmount != nil || maxAmount != nil {
		q = q.Joins("JOIN payments ON payments.patient_id = patients.id AND payments.deleted = ?", false).
			Group("patients.id")
		if minAmount != nil {
			q = q.Having("SUM(payments.amount) >= ?", *minAmount)
		}
		if maxAmount != nil {
			q = q.Having("SUM(payments.amount) <= ?", *maxAmount)
		}
	}

	var patients []models.Patient
	if err := q.Order("patients.id").Find(&patients).Error; err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// ListPayments returns all non-deleted payments. When externalID is given,
// results are restricted to payments belonging to the patient with that
// external identifier (joined on the patient's external id, not the
// surrogate id). An unknown external id yields an empty result.
func (s *Service) ListPayments(ctx context.Context, externalID string) ([]models.Payment, error) {
	q := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("payments.*").
		Where("payments.deleted = ?", false)

	if externalID != "" {
		q = q.Joins("JOIN patients ON patients.id = payments.patient_id").
			Where("patients.external_id = ?", externalID)
	}

	var payments []models.Payment
	if err := q.Order("payments.id").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
