package repository

import (
	"context"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
)

// EmployeeRepository handles employee-related database operations.
type EmployeeRepository struct{}

// NewEmployeeRepository creates a new EmployeeRepository instance.
func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{}
}

// List retrieves all employees ordered by name.
func (r *EmployeeRepository) List(ctx context.Context) ([]models.Employee, error) {
	query := `
		SELECT id, name, certification_level, is_absent, created_at
		FROM employees
		ORDER BY name
	`

	rows, err := database.DB.Query(ctx, query)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()

	var employees []models.Employee
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.CertificationLevel, &e.IsAbsent, &e.CreatedAt); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}

	return employees, rows.Err()
}

// GetByID retrieves a single employee.
// Returns database.ErrNotFound when the id does not exist.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query := `
		SELECT id, name, certification_level, is_absent, created_at
		FROM employees
		WHERE id = $1
	`

	var e models.Employee
	err := database.DB.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.CertificationLevel, &e.IsAbsent, &e.CreatedAt,
	)
	if err != nil {
		return nil, database.MapError(err)
	}

	return &e, nil
}

// Upsert inserts an employee or updates their attributes in place.
// Side effect: populates employee.CreatedAt.
func (r *EmployeeRepository) Upsert(ctx context.Context, employee *models.Employee) error {
	query := `
		INSERT INTO employees (id, name, certification_level, is_absent)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			certification_level = EXCLUDED.certification_level,
			is_absent = EXCLUDED.is_absent
		RETURNING created_at
	`

	err := database.DB.QueryRow(ctx, query,
		employee.ID, employee.Name, employee.CertificationLevel, employee.IsAbsent,
	).Scan(&employee.CreatedAt)

	return database.MapError(err)
}

// SetAbsence updates only an employee's absence flag.
// Returns database.ErrNotFound when the id does not exist.
func (r *EmployeeRepository) SetAbsence(ctx context.Context, id string, isAbsent bool) error {
	tag, err := database.DB.Exec(ctx,
		`UPDATE employees SET is_absent = $2 WHERE id = $1`, id, isAbsent)
	if err != nil {
		return database.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete removes an employee. Dependent competency and log rows (including
// cross-training rows where they appear as trainer or trainee) are removed
// by the schema's ON DELETE CASCADE.
// Returns database.ErrNotFound when the id does not exist.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	tag, err := database.DB.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return database.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}
