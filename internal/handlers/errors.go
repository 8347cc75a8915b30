// Package handlers implements the JSON HTTP handlers for crewmatrix:
// stations, employees, competencies, settings, assignment and cross-training
// logs, and the audit trail. Every mutation follows the same shape: validate
// input, call the repository, append an audit row, return JSON.
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/middleware"
	"github.com/clutchfab/crewmatrix/internal/models"
	"github.com/clutchfab/crewmatrix/internal/repository"
	"github.com/clutchfab/crewmatrix/internal/security"
)

// repoError translates repository sentinel errors into HTTP responses.
// Constraint violations are reported to the security monitor so repeated
// offenders trip an alert.
//
// Status Mapping:
//   - ErrNotFound            -> 404
//   - ErrUniqueViolation     -> 409
//   - ErrForeignKeyViolation -> 422
//   - ErrNotNullViolation    -> 422
//   - anything else          -> 500
func repoError(c *fiber.Ctx, err error, logger *security.Logger, monitor *security.SecurityMonitor) error {
	actor := middleware.ActorFromCtx(c)

	switch {
	case errors.Is(err, database.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not found",
		})

	case errors.Is(err, database.ErrUniqueViolation):
		recordViolation(c, logger, monitor, err)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})

	case errors.Is(err, database.ErrForeignKeyViolation),
		errors.Is(err, database.ErrNotNullViolation):
		recordViolation(c, logger, monitor, err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})

	default:
		logger.Error("repository error on "+c.Path()+" by "+actor.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

func recordViolation(c *fiber.Ctx, logger *security.Logger, monitor *security.SecurityMonitor, err error) {
	actor := middleware.ActorFromCtx(c)
	logger.SecurityEvent(security.EventConstraintViolation, actor.Email, actor.IP, c.Get("User-Agent"),
		map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		})
	if monitor != nil {
		monitor.RecordConstraintViolation(actor.Email)
	}
}

// validationError returns a 400 with the validator's message and logs the
// failure for monitoring.
func validationError(c *fiber.Ctx, err error, logger *security.Logger) error {
	actor := middleware.ActorFromCtx(c)
	logger.SecurityEvent(security.EventValidationFailure, actor.Email, actor.IP, c.Get("User-Agent"),
		map[string]interface{}{
			"path":  c.Path(),
			"error": err.Error(),
		})

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// badRequest returns a 400 for malformed request bodies.
func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

// appendAudit records a mutation in the audit trail. Failures are logged but
// never fail the request: the mutation already committed.
func appendAudit(c *fiber.Ctx, repo *repository.AuditRepository, logger *security.Logger, action, details string) {
	actor := middleware.ActorFromCtx(c)
	entry := &models.AuditLog{
		UserEmail: actor.Email,
		Action:    action,
		Details:   details,
	}
	if err := repo.Log(c.Context(), entry); err != nil {
		logger.Error("audit append failed for "+action, err)
	}
}
