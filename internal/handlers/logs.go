package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
	"github.com/clutchfab/crewmatrix/internal/repository"
	"github.com/clutchfab/crewmatrix/internal/security"
)

// AssignmentLogHandler handles daily assignment history: single entries,
// day-finalizing batches, filtered listings, and day resets.
type AssignmentLogHandler struct {
	logRepo   *repository.AssignmentLogRepository
	auditRepo *repository.AuditRepository
	validator *security.ValidationService
	logger    *security.Logger
	monitor   *security.SecurityMonitor
}

// NewAssignmentLogHandler creates an assignment log handler with initialized
// repositories.
func NewAssignmentLogHandler(validator *security.ValidationService, logger *security.Logger, monitor *security.SecurityMonitor) *AssignmentLogHandler {
	return &AssignmentLogHandler{
		logRepo:   repository.NewAssignmentLogRepository(),
		auditRepo: repository.NewAuditRepository(),
		validator: validator,
		logger:    logger,
		monitor:   monitor,
	}
}

// Create records one assignment log entry. Writing the same
// (date, employee, station) twice overwrites the hours rather than failing:
// a lost insert race degrades into an update.
//
// Audit: LOG_ASSIGNMENT
func (h *AssignmentLogHandler) Create(c *fiber.Ctx) error {
	var form models.AssignmentLogForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}

	log, err := h.validateEntry(form)
	if err != nil {
		return validationError(c, err, h.logger)
	}

	if err := h.logRepo.Create(c.Context(), log); err != nil {
		if !errors.Is(err, database.ErrUniqueViolation) {
			return repoError(c, err, h.logger, h.monitor)
		}
		if err := h.logRepo.Upsert(c.Context(), log); err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
	}

	appendAudit(c, h.auditRepo, h.logger, "LOG_ASSIGNMENT",
		fmt.Sprintf("%s employee %s station %s %.1fh",
			form.LogDate, form.EmployeeID, form.StationID, log.Hours))

	return c.Status(fiber.StatusCreated).JSON(log)
}

// CreateBatch records a day's finalized assignments in one transaction.
// Re-finalizing a day overwrites hours on rows that already exist.
//
// Audit: LOG_ASSIGNMENT_BATCH
func (h *AssignmentLogHandler) CreateBatch(c *fiber.Ctx) error {
	var form models.AssignmentLogBatchForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.ValidateBatchSize(len(form.Logs)); err != nil {
		return validationError(c, err, h.logger)
	}

	logs := make([]models.AssignmentLog, 0, len(form.Logs))
	for _, entry := range form.Logs {
		log, err := h.validateEntry(entry)
		if err != nil {
			return validationError(c, err, h.logger)
		}
		logs = append(logs, *log)
	}

	if err := h.logRepo.UpsertBatch(c.Context(), logs); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "LOG_ASSIGNMENT_BATCH",
		fmt.Sprintf("%d entries", len(logs)))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"count": len(logs)})
}

// List returns assignment logs filtered by exactly one query parameter:
// date, since, employee_id, or station_id.
func (h *AssignmentLogHandler) List(c *fiber.Ctx) error {
	ctx := c.Context()

	switch {
	case c.Query("date") != "":
		date, err := h.validator.ValidateLogDate(c.Query("date"))
		if err != nil {
			return validationError(c, err, h.logger)
		}
		logs, err := h.logRepo.ListByDate(ctx, date)
		if err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
		return c.JSON(logs)

	case c.Query("since") != "":
		since, err := h.validator.ValidateLogDate(c.Query("since"))
		if err != nil {
			return validationError(c, err, h.logger)
		}
		logs, err := h.logRepo.ListSince(ctx, since)
		if err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
		return c.JSON(logs)

	case c.Query("employee_id") != "":
		id := c.Query("employee_id")
		if err := h.validator.ValidateID(id); err != nil {
			return validationError(c, err, h.logger)
		}
		logs, err := h.logRepo.ListByEmployee(ctx, id)
		if err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
		return c.JSON(logs)

	case c.Query("station_id") != "":
		id := c.Query("station_id")
		if err := h.validator.ValidateID(id); err != nil {
			return validationError(c, err, h.logger)
		}
		logs, err := h.logRepo.ListByStation(ctx, id)
		if err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
		return c.JSON(logs)

	default:
		return badRequest(c, "one of date, since, employee_id, station_id is required")
	}
}

// DeleteByDate clears a day's assignment logs so it can be re-finalized from
// scratch.
//
// Audit: RESET_ASSIGNMENT_DAY
func (h *AssignmentLogHandler) DeleteByDate(c *fiber.Ctx) error {
	date, err := h.validator.ValidateLogDate(c.Query("date"))
	if err != nil {
		return validationError(c, err, h.logger)
	}

	if err := h.logRepo.DeleteByDate(c.Context(), date); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "RESET_ASSIGNMENT_DAY", c.Query("date"))

	return c.SendStatus(fiber.StatusNoContent)
}

// validateEntry checks one form entry and converts it to a model. Zero hours
// means "use the standard shift".
func (h *AssignmentLogHandler) validateEntry(form models.AssignmentLogForm) (*models.AssignmentLog, error) {
	date, err := h.validator.ValidateLogDate(form.LogDate)
	if err != nil {
		return nil, err
	}
	if err := h.validator.ValidateID(form.EmployeeID); err != nil {
		return nil, err
	}
	if err := h.validator.ValidateID(form.StationID); err != nil {
		return nil, err
	}

	hours := form.Hours
	if hours == 0 {
		hours = models.DefaultShiftHours
	}
	if err := h.validator.ValidateHours(hours); err != nil {
		return nil, err
	}

	return &models.AssignmentLog{
		LogDate:    date,
		EmployeeID: form.EmployeeID,
		StationID:  form.StationID,
		Hours:      hours,
	}, nil
}

// CrossTrainingLogHandler handles supervised training session records.
type CrossTrainingLogHandler struct {
	logRepo   *repository.CrossTrainingLogRepository
	auditRepo *repository.AuditRepository
	validator *security.ValidationService
	logger    *security.Logger
	monitor   *security.SecurityMonitor
}

// NewCrossTrainingLogHandler creates a training log handler with initialized
// repositories.
func NewCrossTrainingLogHandler(validator *security.ValidationService, logger *security.Logger, monitor *security.SecurityMonitor) *CrossTrainingLogHandler {
	return &CrossTrainingLogHandler{
		logRepo:   repository.NewCrossTrainingLogRepository(),
		auditRepo: repository.NewAuditRepository(),
		validator: validator,
		logger:    logger,
		monitor:   monitor,
	}
}

// Create records one training session. A trainer cannot train themselves,
// and repeating the same (date, trainer, trainee, station) overwrites hours.
//
// Audit: LOG_TRAINING
func (h *CrossTrainingLogHandler) Create(c *fiber.Ctx) error {
	var form models.CrossTrainingLogForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}

	date, err := h.validator.ValidateLogDate(form.LogDate)
	if err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateID(form.TrainerID); err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateID(form.TraineeID); err != nil {
		return validationError(c, err, h.logger)
	}
	if form.TrainerID == form.TraineeID {
		return validationError(c, errTrainerIsTrainee, h.logger)
	}
	if err := h.validator.ValidateID(form.StationID); err != nil {
		return validationError(c, err, h.logger)
	}

	hours := form.Hours
	if hours == 0 {
		hours = models.DefaultTrainingHours
	}
	if err := h.validator.ValidateHours(hours); err != nil {
		return validationError(c, err, h.logger)
	}

	log := &models.CrossTrainingLog{
		LogDate:   date,
		TrainerID: form.TrainerID,
		TraineeID: form.TraineeID,
		StationID: form.StationID,
		Hours:     hours,
	}
	if err := h.logRepo.Create(c.Context(), log); err != nil {
		if !errors.Is(err, database.ErrUniqueViolation) {
			return repoError(c, err, h.logger, h.monitor)
		}
		if err := h.logRepo.Upsert(c.Context(), log); err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
	}

	appendAudit(c, h.auditRepo, h.logger, "LOG_TRAINING",
		fmt.Sprintf("%s trainer %s trainee %s station %s",
			form.LogDate, form.TrainerID, form.TraineeID, form.StationID))

	return c.Status(fiber.StatusCreated).JSON(log)
}

// List returns training logs filtered by exactly one query parameter:
// date, trainer_id, trainee_id, or station_id.
func (h *CrossTrainingLogHandler) List(c *fiber.Ctx) error {
	ctx := c.Context()

	switch {
	case c.Query("date") != "":
		date, err := h.validator.ValidateLogDate(c.Query("date"))
		if err != nil {
			return validationError(c, err, h.logger)
		}
		logs, err := h.logRepo.ListByDate(ctx, date)
		if err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
		return c.JSON(logs)

	case c.Query("trainer_id") != "":
		id := c.Query("trainer_id")
		if err := h.validator.ValidateID(id); err != nil {
			return validationError(c, err, h.logger)
		}
		logs, err := h.logRepo.ListByTrainer(ctx, id)
		if err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
		return c.JSON(logs)

	case c.Query("trainee_id") != "":
		id := c.Query("trainee_id")
		if err := h.validator.ValidateID(id); err != nil {
			return validationError(c, err, h.logger)
		}
		logs, err := h.logRepo.ListByTrainee(ctx, id)
		if err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
		return c.JSON(logs)

	case c.Query("station_id") != "":
		id := c.Query("station_id")
		if err := h.validator.ValidateID(id); err != nil {
			return validationError(c, err, h.logger)
		}
		logs, err := h.logRepo.ListByStation(ctx, id)
		if err != nil {
			return repoError(c, err, h.logger, h.monitor)
		}
		return c.JSON(logs)

	default:
		return badRequest(c, "one of date, trainer_id, trainee_id, station_id is required")
	}
}

// DeleteByDate clears a day's training logs.
//
// Audit: RESET_TRAINING_DAY
func (h *CrossTrainingLogHandler) DeleteByDate(c *fiber.Ctx) error {
	date, err := h.validator.ValidateLogDate(c.Query("date"))
	if err != nil {
		return validationError(c, err, h.logger)
	}

	if err := h.logRepo.DeleteByDate(c.Context(), date); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "RESET_TRAINING_DAY", c.Query("date"))

	return c.SendStatus(fiber.StatusNoContent)
}

var errTrainerIsTrainee = errors.New("trainer and trainee must be different employees")
