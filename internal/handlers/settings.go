package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
	"github.com/clutchfab/crewmatrix/internal/repository"
	"github.com/clutchfab/crewmatrix/internal/security"
)

// SettingHandler handles the key/value settings store. Known display keys
// (skill labels, certification labels, matrix colors) fall back to built-in
// defaults when no row exists, so a fresh database renders correctly.
type SettingHandler struct {
	settingRepo *repository.SettingRepository
	auditRepo   *repository.AuditRepository
	validator   *security.ValidationService
	logger      *security.Logger
	monitor     *security.SecurityMonitor
}

// NewSettingHandler creates a settings handler with initialized repositories.
func NewSettingHandler(validator *security.ValidationService, logger *security.Logger, monitor *security.SecurityMonitor) *SettingHandler {
	return &SettingHandler{
		settingRepo: repository.NewSettingRepository(),
		auditRepo:   repository.NewAuditRepository(),
		validator:   validator,
		logger:      logger,
		monitor:     monitor,
	}
}

// List returns every stored setting row.
func (h *SettingHandler) List(c *fiber.Ctx) error {
	settings, err := h.settingRepo.List(c.Context())
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	return c.JSON(settings)
}

// Get returns one setting's value. A missing row for a known display key
// returns the built-in default instead of 404.
func (h *SettingHandler) Get(c *fiber.Ctx) error {
	key := c.Params("key")
	if err := h.validator.ValidateSettingKey(key); err != nil {
		return validationError(c, err, h.logger)
	}

	value, err := h.settingRepo.Get(c.Context(), key)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			if fallback, ok := defaultSettingValue(key); ok {
				return c.JSON(models.Setting{Key: key, Value: fallback})
			}
		}
		return repoError(c, err, h.logger, h.monitor)
	}

	return c.JSON(models.Setting{Key: key, Value: value})
}

// Upsert creates or overwrites a setting.
//
// Audit: UPSERT_SETTING
func (h *SettingHandler) Upsert(c *fiber.Ctx) error {
	key := c.Params("key")
	if err := h.validator.ValidateSettingKey(key); err != nil {
		return validationError(c, err, h.logger)
	}

	var form models.SettingForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.ValidateSettingValue(form.Value); err != nil {
		return validationError(c, err, h.logger)
	}

	setting := &models.Setting{Key: key, Value: form.Value}
	if err := h.settingRepo.Upsert(c.Context(), setting); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "UPSERT_SETTING", "key "+key)

	return c.JSON(setting)
}

// Delete removes a setting row. Known display keys revert to their defaults
// on the next read.
//
// Audit: DELETE_SETTING
func (h *SettingHandler) Delete(c *fiber.Ctx) error {
	key := c.Params("key")
	if err := h.validator.ValidateSettingKey(key); err != nil {
		return validationError(c, err, h.logger)
	}

	if err := h.settingRepo.Delete(c.Context(), key); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "DELETE_SETTING", "key "+key)

	return c.SendStatus(fiber.StatusNoContent)
}

// defaultSettingValue returns the built-in value for the known display keys.
func defaultSettingValue(key string) (value []byte, ok bool) {
	for _, setting := range models.DefaultSettings() {
		if setting.Key == key {
			return setting.Value, true
		}
	}
	return nil, false
}
