package health

import (
	"context"
	"fmt"

	"patient-sync/core/database"
	"patient-sync/core/storage"
	"patient-sync/feature/billing/models"

	"gorm.io/gorm"
)

// Report strictly types the result of a health check.
type Report struct {
	Healthy bool                   `json:"healthy"`
	Tables  map[string]TableReport `json:"tables"`
	Storage *StorageReport         `json:"storage,omitempty"`
	Errors  []string               `json:"errors,omitempty"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

type StorageReport struct {
	Bucket string `json:"bucket"`
	Status string `json:"status"` // "ok", "error"
	Error  string `json:"error,omitempty"`
}

// Service handles health checks.
type Service struct {
	db     *gorm.DB
	store  storage.Client // nil when object storage is not configured
	bucket string
}

// NewService creates a new health service.
func NewService(db *gorm.DB, store storage.Client, bucket string) *Service {
	return &Service{
		db:     db,
		store:  store,
		bucket: bucket,
	}
}

// Check verifies that the database schema matches the models and, when
// object storage is configured, that the archive bucket is reachable.
func (s *Service) Check(ctx context.Context) *Report {
	report := &Report{
		Healthy: true,
		Tables:  make(map[string]TableReport),
	}

	s.checkSchema(report)

	if s.store != nil {
		report.Storage = s.checkStorage(ctx)
		if report.Storage.Status != "ok" {
			report.Healthy = false
		}
	}

	return report
}

func (s *Service) checkSchema(report *Report) {
	if s.db == nil {
		report.Healthy = false
		report.Errors = append(report.Errors, "database connection is nil")
		return
	}

	for table, required := range models.RequiredColumns {
		tblReport := TableReport{
			MissingColumns: []string{},
			Status:         "ok",
		}

		if !database.HasTable(s.db, table) {
			tblReport.Status = "error"
			report.Healthy = false
			report.Errors = append(report.Errors, fmt.Sprintf("table %s does not exist", table))
			report.Tables[table] = tblReport
			continue
		}

		actualCols, err := database.GetTableColumns(s.db, table)
		if err != nil {
			tblReport.Status = "error"
			report.Healthy = false
			report.Errors = append(report.Errors, fmt.Sprintf("failed to inspect table %s: %v", table, err))
			report.Tables[table] = tblReport
			continue
		}

		actual := make(map[string]bool, len(actualCols))
		for _, col := range actualCols {
			actual[col.Field] = true
		}

		for _, col := range required {
			if !actual[col] {
				tblReport.MissingColumns = append(tblReport.MissingColumns, col)
				tblReport.Status = "error"
				report.Healthy = false
			}
		}

		report.Tables[table] = tblReport
	}
}

func (s *Service) checkStorage(ctx context.Context) *StorageReport {
	storageReport := &StorageReport{
		Bucket: s.bucket,
		Status: "ok",
	}

	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		storageReport.Status = "error"
		storageReport.Error = err.Error()
		return storageReport
	}
	if !exists {
		storageReport.Status = "error"
		storageReport.Error = fmt.Sprintf("bucket %s does not exist", s.bucket)
	}
	return storageReport
}
