package repository

import (
	"context"
	"time"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
)

// AssignmentLogRepository handles the daily assignment history.
// (log_date, employee_id, station_id) is unique: an employee logs at most
// one assignment per station per day.
type AssignmentLogRepository struct{}

// NewAssignmentLogRepository creates a new AssignmentLogRepository instance.
func NewAssignmentLogRepository() *AssignmentLogRepository {
	return &AssignmentLogRepository{}
}

const assignmentLogColumns = `id, log_date, employee_id, station_id, hours, created_at`

// Create inserts a single assignment log entry.
//
// A duplicate (log_date, employee_id, station_id) tuple surfaces as
// database.ErrUniqueViolation: two callers racing on the same tuple see the
// second committer rejected, and that caller should retry through Upsert.
// Side effect: populates log.ID and log.CreatedAt.
func (r *AssignmentLogRepository) Create(ctx context.Context, log *models.AssignmentLog) error {
	query := `
		INSERT INTO assignment_logs (log_date, employee_id, station_id, hours)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := database.DB.QueryRow(ctx, query,
		log.LogDate, log.EmployeeID, log.StationID, log.Hours,
	).Scan(&log.ID, &log.CreatedAt)

	return database.MapError(err)
}

// Upsert records an assignment, overwriting the hours of an existing entry
// for the same (date, employee, station) tuple.
func (r *AssignmentLogRepository) Upsert(ctx context.Context, log *models.AssignmentLog) error {
	query := `
		INSERT INTO assignment_logs (log_date, employee_id, station_id, hours)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (log_date, employee_id, station_id) DO UPDATE SET hours = EXCLUDED.hours
		RETURNING id, created_at
	`

	err := database.DB.QueryRow(ctx, query,
		log.LogDate, log.EmployeeID, log.StationID, log.Hours,
	).Scan(&log.ID, &log.CreatedAt)

	return database.MapError(err)
}

// UpsertBatch records a finalized day's assignments in one transaction.
// Each row upserts on its uniqueness tuple, so re-finalizing a day
// overwrites hours instead of failing.
func (r *AssignmentLogRepository) UpsertBatch(ctx context.Context, logs []models.AssignmentLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := database.DB.Begin(ctx)
	if err != nil {
		return database.MapError(err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO assignment_logs (log_date, employee_id, station_id, hours)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (log_date, employee_id, station_id) DO UPDATE SET hours = EXCLUDED.hours
	`

	for i := range logs {
		if _, err := tx.Exec(ctx, query,
			logs[i].LogDate, logs[i].EmployeeID, logs[i].StationID, logs[i].Hours,
		); err != nil {
			return database.MapError(err)
		}
	}

	return database.MapError(tx.Commit(ctx))
}

// ListByDate retrieves all logs for a specific date.
func (r *AssignmentLogRepository) ListByDate(ctx context.Context, date time.Time) ([]models.AssignmentLog, error) {
	query := `
		SELECT ` + assignmentLogColumns + `
		FROM assignment_logs
		WHERE log_date = $1
		ORDER BY employee_id, station_id
	`
	return r.queryLogs(ctx, query, date)
}

// ListSince retrieves all logs on or after the given date, newest first.
// A zero time returns the full history.
func (r *AssignmentLogRepository) ListSince(ctx context.Context, since time.Time) ([]models.AssignmentLog, error) {
	if since.IsZero() {
		query := `
			SELECT ` + assignmentLogColumns + `
			FROM assignment_logs
			ORDER BY log_date DESC
		`
		return r.queryLogs(ctx, query)
	}

	query := `
		SELECT ` + assignmentLogColumns + `
		FROM assignment_logs
		WHERE log_date >= $1
		ORDER BY log_date DESC
	`
	return r.queryLogs(ctx, query, since)
}

// ListByEmployee retrieves one employee's logs, newest first.
func (r *AssignmentLogRepository) ListByEmployee(ctx context.Context, employeeID string) ([]models.AssignmentLog, error) {
	query := `
		SELECT ` + assignmentLogColumns + `
		FROM assignment_logs
		WHERE employee_id = $1
		ORDER BY log_date DESC
	`
	return r.queryLogs(ctx, query, employeeID)
}

// ListByStation retrieves one station's logs, newest first.
func (r *AssignmentLogRepository) ListByStation(ctx context.Context, stationID string) ([]models.AssignmentLog, error) {
	query := `
		SELECT ` + assignmentLogColumns + `
		FROM assignment_logs
		WHERE station_id = $1
		ORDER BY log_date DESC
	`
	return r.queryLogs(ctx, query, stationID)
}

// DeleteByDate removes all logs for a date (un-finalizing a day).
func (r *AssignmentLogRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	_, err := database.DB.Exec(ctx, `DELETE FROM assignment_logs WHERE log_date = $1`, date)
	return database.MapError(err)
}

func (r *AssignmentLogRepository) queryLogs(ctx context.Context, query string, args ...interface{}) ([]models.AssignmentLog, error) {
	rows, err := database.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()

	var logs []models.AssignmentLog
	for rows.Next() {
		var l models.AssignmentLog
		if err := rows.Scan(&l.ID, &l.LogDate, &l.EmployeeID, &l.StationID, &l.Hours, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
