package billing

import (
	"patient-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the billing service into the application.
type Feature struct {
	service *Service
	db      *gorm.DB
}

// NewFeature creates the billing feature. store may be nil.
func NewFeature(db *gorm.DB, logger *zap.Logger, store storage.Client, bucket string) *Feature {
	return &Feature{
		service: NewService(db, logger, store, bucket),
		db:      db,
	}
}

// Name returns the feature identifier.
func (f *Feature) Name() string {
	return "billing"
}

// IsEnabled reports whether the feature can run. Without a database there
// is nothing to sync against.
func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

// Load registers the billing routes.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
