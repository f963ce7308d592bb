package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"patient-sync/core/reconcile"
	"patient-sync/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns imports and queries for patients and payments. The
// reconciliation engine has exclusive write access to both tables; queries
// are read-only.
type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	store    storage.Client // nil when object storage is not configured
	bucket   string
	patients reconcile.Adapter
	payments reconcile.Adapter
}

// NewService creates a new billing service. store may be nil; batch
// archival is skipped without it.
func NewService(db *gorm.DB, logger *zap.Logger, store storage.Client, bucket string) *Service {
	return &Service{
		db:       db,
		logger:   logger,
		store:    store,
		bucket:   bucket,
		patients: newPatientAdapter(),
		payments: newPaymentAdapter(logger),
	}
}

// ImportPatients reconciles one batch of raw patient records.
func (s *Service) ImportPatients(ctx context.Context, batch []json.RawMessage) (*reconcile.Summary, error) {
	s.archive(ctx, "patients", batch)
	return reconcile.Import(ctx, s.db, s.patients, batch)
}

// ImportPayments reconciles one batch of raw payment records. Payments
// reference patients by surrogate id; callers needing strict referential
// consistency must run the patients import first.
func (s *Service) ImportPayments(ctx context.Context, batch []json.RawMessage) (*reconcile.Summary, error) {
	s.archive(ctx, "payments", batch)
	return reconcile.Import(ctx, s.db, s.payments, batch)
}

// archive writes the raw batch to object storage for audit/replay. Archive
// failure is logged and never fails the import.
func (s *Service) archive(ctx context.Context, entity string, batch []json.RawMessage) {
	if s.store == nil || len(batch) == 0 {
		return
	}

	payload, err := json.Marshal(batch)
	if err != nil {
		s.logger.Warn("Failed to encode batch for archival", zap.String("entity", entity), zap.Error(err))
		return
	}

	objectName := fmt.Sprintf("imports/%s/%s-%s.json",
		entity,
		time.Now().UTC().Format("20060102T150405"),
		uuid.New().String()[:8])

	_, err = s.store.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		s.logger.Warn("Failed to archive import batch",
			zap.String("entity", entity),
			zap.String("object", objectName),
			zap.Error(err))
		return
	}

	s.logger.Info("Archived import batch",
		zap.String("entity", entity),
		zap.String("object", objectName),
		zap.Int("records", len(batch)))
}
