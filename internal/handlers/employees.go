package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/clutchfab/crewmatrix/internal/models"
	"github.com/clutchfab/crewmatrix/internal/repository"
	"github.com/clutchfab/crewmatrix/internal/security"
)

// EmployeeHandler handles employee CRUD, absence toggling, the per-employee
// competency subresource, and the combined matrix view.
type EmployeeHandler struct {
	employeeRepo   *repository.EmployeeRepository
	stationRepo    *repository.StationRepository
	competencyRepo *repository.CompetencyRepository
	auditRepo      *repository.AuditRepository
	validator      *security.ValidationService
	logger         *security.Logger
	monitor        *security.SecurityMonitor
}

// NewEmployeeHandler creates an employee handler with initialized repositories.
func NewEmployeeHandler(validator *security.ValidationService, logger *security.Logger, monitor *security.SecurityMonitor) *EmployeeHandler {
	return &EmployeeHandler{
		employeeRepo:   repository.NewEmployeeRepository(),
		stationRepo:    repository.NewStationRepository(),
		competencyRepo: repository.NewCompetencyRepository(),
		auditRepo:      repository.NewAuditRepository(),
		validator:      validator,
		logger:         logger,
		monitor:        monitor,
	}
}

// List returns every employee ordered by name.
func (h *EmployeeHandler) List(c *fiber.Ctx) error {
	employees, err := h.employeeRepo.List(c.Context())
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	return c.JSON(employees)
}

// Get returns a single employee by id.
func (h *EmployeeHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID(id); err != nil {
		return validationError(c, err, h.logger)
	}

	employee, err := h.employeeRepo.GetByID(c.Context(), id)
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	return c.JSON(employee)
}

// Upsert creates or updates an employee. An empty id means the server
// assigns one.
//
// Audit: UPSERT_EMPLOYEE
func (h *EmployeeHandler) Upsert(c *fiber.Ctx) error {
	var form models.EmployeeForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}

	if form.ID == "" {
		form.ID = models.NewID(models.EmployeeIDPrefix)
	}
	if err := h.validator.ValidateID(form.ID); err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateName(form.Name); err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateCertificationLevel(form.CertificationLevel); err != nil {
		return validationError(c, err, h.logger)
	}

	employee := &models.Employee{
		ID:                 form.ID,
		Name:               form.Name,
		CertificationLevel: form.CertificationLevel,
		IsAbsent:           form.IsAbsent,
	}
	if err := h.employeeRepo.Upsert(c.Context(), employee); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "UPSERT_EMPLOYEE",
		fmt.Sprintf("employee %s (%s)", employee.ID, employee.Name))

	return c.JSON(employee)
}

// SetAbsence toggles an employee's absence flag without touching any other
// field.
//
// Audit: SET_ABSENCE
func (h *EmployeeHandler) SetAbsence(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID(id); err != nil {
		return validationError(c, err, h.logger)
	}

	var form models.AbsenceForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := h.employeeRepo.SetAbsence(c.Context(), id, form.IsAbsent); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "SET_ABSENCE",
		fmt.Sprintf("employee %s absent=%t", id, form.IsAbsent))

	return c.JSON(fiber.Map{"id": id, "is_absent": form.IsAbsent})
}

// Delete removes an employee. Competencies, assignment logs, and training
// logs referencing them cascade-delete in the database.
//
// Audit: DELETE_EMPLOYEE
func (h *EmployeeHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID(id); err != nil {
		return validationError(c, err, h.logger)
	}

	if err := h.employeeRepo.Delete(c.Context(), id); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "DELETE_EMPLOYEE", "employee "+id)

	return c.SendStatus(fiber.StatusNoContent)
}

// GetCompetencies returns one employee's station->level map.
func (h *EmployeeHandler) GetCompetencies(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID(id); err != nil {
		return validationError(c, err, h.logger)
	}

	competencies, err := h.competencyRepo.ListByEmployee(c.Context(), id)
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	return c.JSON(competencies)
}

// PutCompetency sets one employee's level at one station, creating or
// overwriting the cell.
//
// Audit: SET_COMPETENCY
func (h *EmployeeHandler) PutCompetency(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID(id); err != nil {
		return validationError(c, err, h.logger)
	}

	var form models.CompetencyForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := h.validator.ValidateID(form.StationID); err != nil {
		return validationError(c, err, h.logger)
	}
	if err := h.validator.ValidateSkillLevel(form.Level); err != nil {
		return validationError(c, err, h.logger)
	}

	comp := &models.Competency{
		EmployeeID: id,
		StationID:  form.StationID,
		Level:      form.Level,
	}
	if err := h.competencyRepo.Upsert(c.Context(), comp); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "SET_COMPETENCY",
		fmt.Sprintf("employee %s station %s level %d", id, form.StationID, form.Level))

	return c.JSON(comp)
}

// PutCompetencySheet replaces all of an employee's competencies in one
// transaction, the way the matrix editor saves a whole row.
//
// Audit: REPLACE_COMPETENCIES
func (h *EmployeeHandler) PutCompetencySheet(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID(id); err != nil {
		return validationError(c, err, h.logger)
	}

	var form models.CompetencySheetForm
	if err := c.BodyParser(&form); err != nil {
		return badRequest(c, "invalid request body")
	}
	for stationID, level := range form.Competencies {
		if err := h.validator.ValidateID(stationID); err != nil {
			return validationError(c, err, h.logger)
		}
		if err := h.validator.ValidateSkillLevel(level); err != nil {
			return validationError(c, err, h.logger)
		}
	}

	if err := h.competencyRepo.ReplaceForEmployee(c.Context(), id, form.Competencies); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "REPLACE_COMPETENCIES",
		fmt.Sprintf("employee %s, %d stations", id, len(form.Competencies)))

	return c.JSON(form.Competencies)
}

// DeleteCompetencies clears every competency row for one employee.
//
// Audit: CLEAR_COMPETENCIES
func (h *EmployeeHandler) DeleteCompetencies(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.validator.ValidateID(id); err != nil {
		return validationError(c, err, h.logger)
	}

	if err := h.competencyRepo.DeleteForEmployee(c.Context(), id); err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	appendAudit(c, h.auditRepo, h.logger, "CLEAR_COMPETENCIES", "employee "+id)

	return c.SendStatus(fiber.StatusNoContent)
}

// Matrix returns the full cross-training matrix: all stations plus every
// employee with their competency map attached. One call loads the board.
func (h *EmployeeHandler) Matrix(c *fiber.Ctx) error {
	stations, err := h.stationRepo.List(c.Context())
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	employees, err := h.employeeRepo.List(c.Context())
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	competencies, err := h.competencyRepo.ListAll(c.Context())
	if err != nil {
		return repoError(c, err, h.logger, h.monitor)
	}

	byEmployee := make(map[string]map[string]int, len(employees))
	for _, comp := range competencies {
		if byEmployee[comp.EmployeeID] == nil {
			byEmployee[comp.EmployeeID] = make(map[string]int)
		}
		byEmployee[comp.EmployeeID][comp.StationID] = comp.Level
	}

	rows := make([]models.EmployeeMatrixRow, 0, len(employees))
	for _, emp := range employees {
		levels := byEmployee[emp.ID]
		if levels == nil {
			levels = map[string]int{}
		}
		rows = append(rows, models.EmployeeMatrixRow{
			Employee:            emp,
			StationCompetencies: levels,
		})
	}

	return c.JSON(models.MatrixView{
		Stations:  stations,
		Employees: rows,
	})
}
