package repository

import (
	"context"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
)

// CompetencyRepository handles the employee-station skill matrix.
// (employee_id, station_id) is the primary key: at most one level per pair.
type CompetencyRepository struct{}

// NewCompetencyRepository creates a new CompetencyRepository instance.
func NewCompetencyRepository() *CompetencyRepository {
	return &CompetencyRepository{}
}

// ListAll retrieves every competency row.
func (r *CompetencyRepository) ListAll(ctx context.Context) ([]models.Competency, error) {
	query := `SELECT employee_id, station_id, level FROM competencies ORDER BY employee_id, station_id`

	rows, err := database.DB.Query(ctx, query)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()

	var comps []models.Competency
	for rows.Next() {
		var c models.Competency
		if err := rows.Scan(&c.EmployeeID, &c.StationID, &c.Level); err != nil {
			return nil, err
		}
		comps = append(comps, c)
	}

	return comps, rows.Err()
}

// ListByEmployee retrieves one employee's competencies as a station->level map.
func (r *CompetencyRepository) ListByEmployee(ctx context.Context, employeeID string) (map[string]int, error) {
	query := `SELECT station_id, level FROM competencies WHERE employee_id = $1`

	rows, err := database.DB.Query(ctx, query, employeeID)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()

	comps := make(map[string]int)
	for rows.Next() {
		var stationID string
		var level int
		if err := rows.Scan(&stationID, &level); err != nil {
			return nil, err
		}
		comps[stationID] = level
	}

	return comps, rows.Err()
}

// Upsert records an employee's skill level at one station, replacing any
// previous level for the pair. Fails with database.ErrForeignKeyViolation
// when either the employee or the station does not exist.
func (r *CompetencyRepository) Upsert(ctx context.Context, comp *models.Competency) error {
	query := `
		INSERT INTO competencies (employee_id, station_id, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, station_id) DO UPDATE SET level = EXCLUDED.level
	`

	_, err := database.DB.Exec(ctx, query, comp.EmployeeID, comp.StationID, comp.Level)
	return database.MapError(err)
}

// ReplaceForEmployee atomically replaces all of an employee's competencies
// with the supplied station->level map. Stations absent from the map lose
// their entry. Runs in a transaction so a failed insert leaves the previous
// sheet intact.
func (r *CompetencyRepository) ReplaceForEmployee(ctx context.Context, employeeID string, competencies map[string]int) error {
	tx, err := database.DB.Begin(ctx)
	if err != nil {
		return database.MapError(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM competencies WHERE employee_id = $1`, employeeID); err != nil {
		return database.MapError(err)
	}

	insert := `INSERT INTO competencies (employee_id, station_id, level) VALUES ($1, $2, $3)`
	for stationID, level := range competencies {
		if _, err := tx.Exec(ctx, insert, employeeID, stationID, level); err != nil {
			return database.MapError(err)
		}
	}

	return database.MapError(tx.Commit(ctx))
}

// DeleteForEmployee removes all of one employee's competency rows.
func (r *CompetencyRepository) DeleteForEmployee(ctx context.Context, employeeID string) error {
	_, err := database.DB.Exec(ctx, `DELETE FROM competencies WHERE employee_id = $1`, employeeID)
	return database.MapError(err)
}
