package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clutchfab/crewmatrix/internal/middleware"
	"github.com/clutchfab/crewmatrix/internal/models"
	"github.com/clutchfab/crewmatrix/internal/repository"
	"github.com/clutchfab/crewmatrix/internal/security"
)

// defaultAuditPageSize caps ListRecent when the client does not ask for a
// specific limit.
const defaultAuditPageSize = 100

// AuditHandler exposes the audit trail: explicit appends from the client and
// a recent-entries listing. There are no update or delete routes; the trail
// is append-only.
type AuditHandler struct {
	auditRepo *repository.AuditRepository
	validator *security.ValidationService
	logger    *security.Logger
	monitor   *security.SecurityMonitor
}

// NewAuditHandler creates an audit handler with an initialized repository.
func NewAuditHandler(validator *security.ValidationService, logger *security.Logger, monitor *security.SecurityMonitor) *AuditHandler {
	return &AuditHandler{
		auditRepo: repository.NewAuditRepository(),
		validator: validator,
		logger:    logger,
		monitor:   monitor,
	}
}

// Append records a client-supplied audit entry under the acting identity.
// Mutation handlers write their own entries; this route exists for actions
// the server cannot see, like exports.
func (h *AuditHandler) Append(c *fiber.Ctx) error {
	var form models.AuditEntryForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.ValidateAuditAction(form.Action); err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateAuditDetails(form.Details); err != nil {
		return validationError(c, err, h.logger)
	}

	actor := middleware.ActorFromCtx(c)
	entry := &models.AuditLog{
		UserEmail: actor.Email,
		Action:    form.Action,
		Details:   form.Details,
	}
	if err := h.auditRepo.Log(c.Context(), entry); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	return c.Status(fiber.StatusCreated).JSON(entry)
}

// ListRecent returns the newest audit entries, newest first. The limit query
// parameter caps the page size up to the default.
func (h *AuditHandler) ListRecent(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultAuditPageSize)
	if limit < 1 || limit > defaultAuditPageSize {
		limit = defaultAuditPageSize
	}

	entries, err := h.auditRepo.ListRecent(c.Context(), limit)
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	return c.JSON(entries)
}
