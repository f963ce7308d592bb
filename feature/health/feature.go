package health

import (
	"patient-sync/core/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Feature wires the health check into the application.
type Feature struct {
	service *Service
}

// NewFeature creates the health feature. store may be nil.
func NewFeature(db *gorm.DB, store storage.Client, bucket string) *Feature {
	return &Feature{service: NewService(db, store, bucket)}
}

// Name returns the feature identifier.
func (f *Feature) Name() string {
	return "health"
}

// IsEnabled reports whether the feature can run. The health endpoint is
// always served; an unhealthy state is its answer, not a reason to hide.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the health route.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
