package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/clutchfab/crewmatrix/internal/models"
	"github.com/clutchfab/crewmatrix/internal/repository"
	"github.com/clutchfab/crewmatrix/internal/security"
)

// StationHandler handles station CRUD requests.
//
// Routes: GET /stations, GET /stations/:id, PUT /stations, DELETE /stations/:id
type StationHandler struct {
	stationRepo *repository.StationRepository
	auditRepo   *repository.AuditRepository
	validator   *security.ValidationService
	logger      *security.Logger
	monitor     *security.SecurityMonitor
}

// NewStationHandler creates a station handler with initialized repositories.
func NewStationHandler(validator *security.ValidationService, logger *security.Logger, monitor *security.SecurityMonitor) *StationHandler {
	return &StationHandler{
		stationRepo: repository.NewStationRepository(),
		auditRepo:   repository.NewAuditRepository(),
		validator:   validator,
		logger:      logger,
		monitor:     monitor,
	}
}

// List returns every station ordered by name.
func (h *StationHandler) List(c *fiber.Ctx) error {
	stations, err := h.stationRepo.List(c.Context())
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	return c.JSON(stations)
}

// Get returns a single station by id.
func (h *StationHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID(id); err != nil {
		return validationError(c, err, h.logger)
	}

	station, err := h.stationRepo.GetByID(c.Context(), id)
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	return c.JSON(station)
}

// Upsert creates or updates a station. An empty id in the body means the
// server assigns one.
//
// Audit: UPSERT_STATION
func (h *StationHandler) Upsert(c *fiber.Ctx) error {
	var form models.StationForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}

	if form.ID == "" {
		form.ID = models.NewID(models.StationIDPrefix)
	}
	if err := h.validator.ValidateID(form.ID); err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateName(form.Name); err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateSkillLevel(form.RequiredSkillLevel); err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateHeadcount(form.RequiredHeadcount); err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateCertificationLevel(form.RequiredCertification); err != nil {
		return validationError(c, err, h.logger)
	}

	station := &models.Station{
		ID:                    form.ID,
		Name:                  form.Name,
		RequiredSkillLevel:    form.RequiredSkillLevel,
		RequiredHeadcount:     form.RequiredHeadcount,
		RequiredCertification: form.RequiredCertification,
	}
	if err := h.stationRepo.Upsert(c.Context(), station); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "UPSERT_STATION",
		fmt.Sprintf("station %s (%s)", station.ID, station.Name))

	return c.JSON(station)
}

// Delete removes a station. Competencies and assignment logs referencing it
// cascade-delete in the database.
//
// Audit: DELETE_STATION
func (h *StationHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID(id); err != nil {
		return validationError(c, err, h.logger)
	}

	if err := h.stationRepo.Delete(c.Context(), id); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "DELETE_STATION", "station "+id)

	return c.SendStatus(fiber.StatusNoContent)
}
