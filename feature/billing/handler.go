package billing

import (
	"encoding/json"
	"strconv"

	"patient-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for patient and payment sync.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the billing routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/patients", h.HandleListPatients)
	app.Post("/patients", h.HandleImportPatients)
	app.Get("/payments", h.HandleListPayments)
	app.Post("/payments", h.HandleImportPayments)
}

// HandleListPatients lists non-deleted patients, optionally filtered by
// summed live-payment amount.
// @Summary List Patients
// @Description List non-deleted patients, optionally restricted by the sum of their live payment amounts.
// @Tags billing
// @Produce json
// @Param payment_min query number false "Minimum summed payment amount (inclusive)"
// @Param payment_max query number false "Maximum summed payment amount (inclusive)"
// @Success 200 {array} models.Patient "Patients"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /patients [get]
func (h *Handler) HandleListPatients(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	minAmount, err := floatQuery(c, "payment_min")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment_min must be a number"})
	}
	maxAmount, err := floatQuery(c, "payment_max")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "payment_max must be a number"})
	}

	patients, err := h.service.ListPatients(c.Context(), minAmount, maxAmount)
	if err != nil {
		l.Error("Patient listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(patients)
}

// HandleImportPatients reconciles a batch of raw patient records.
// @Summary Import Patients
// @Description Reconcile one batch of externally sourced patient records.
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "Batch summary"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /patients [post]
func (h *Handler) HandleImportPatients(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	batch, err := decodeBatch(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "request body must be a JSON array"})
	}

	summary, err := h.service.ImportPatients(c.Context(), batch)
	if err != nil {
		l.Error("Patient import failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Patient batch imported",
		zap.Int("received", summary.Received),
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("soft_deleted", summary.SoftDeleted))

	return c.JSON(fiber.Map{"status": "OK", "summary": summary})
}

// HandleListPayments lists non-deleted payments, optionally restricted to
// one patient's external id.
// @Summary List Payments
// @Description List non-deleted payments, optionally for the patient with the given external id.
// @Tags billing
// @Produce json
// @Param external_id query string false "Owning patient's external identifier"
// @Success 200 {array} models.Payment "Payments"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /payments [get]
func (h *Handler) HandleListPayments(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	payments, err := h.service.ListPayments(c.Context(), c.Query("external_id"))
	if err != nil {
		l.Error("Payment listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(payments)
}

// HandleImportPayments reconciles a batch of raw payment records.
// @Summary Import Payments
// @Description Reconcile one batch of externally sourced payment records.
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]any "Batch summary"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /payments [post]
func (h *Handler) HandleImportPayments(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	batch, err := decodeBatch(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "request body must be a JSON array"})
	}

	summary, err := h.service.ImportPayments(c.Context(), batch)
	if err != nil {
		l.Error("Payment import failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Payment batch imported",
		zap.Int("received", summary.Received),
		zap.Int("inserted", summary.Inserted),
		zap.Int("updated", summary.Updated),
		zap.Int("soft_deleted", summary.SoftDeleted))

	return c.JSON(fiber.Map{"status": "OK", "summary": summary})
}

func decodeBatch(c *fiber.Ctx) ([]json.RawMessage, error) {
	var batch []json.RawMessage
	if err := json.Unmarshal(c.Body(), &batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func floatQuery(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &val, nil
}
