package repository

import (
	"context"
	"time"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
)

// CrossTrainingLogRepository handles training session records.
// (log_date, trainer_id, trainee_id, station_id) is unique.
type CrossTrainingLogRepository struct{}

// NewCrossTrainingLogRepository creates a new CrossTrainingLogRepository instance.
func NewCrossTrainingLogRepository() *CrossTrainingLogRepository {
	return &CrossTrainingLogRepository{}
}

const trainingLogColumns = `id, log_date, trainer_id, trainee_id, station_id, hours, created_at`

// Create inserts a training session record.
// A duplicate (date, trainer, trainee, station) tuple surfaces as
// database.ErrUniqueViolation; callers correcting an entry should use
// Upsert instead. Side effect: populates log.ID and log.CreatedAt.
func (r *CrossTrainingLogRepository) Create(ctx context.Context, log *models.CrossTrainingLog) error {
	query := `
		INSERT INTO cross_training_logs (log_date, trainer_id, trainee_id, station_id, hours)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := database.DB.QueryRow(ctx, query,
		log.LogDate, log.TrainerID, log.TraineeID, log.StationID, log.Hours,
	).Scan(&log.ID, &log.CreatedAt)

	return database.MapError(err)
}

// Upsert records a training session, overwriting the hours of an existing
// entry for the same uniqueness tuple.
func (r *CrossTrainingLogRepository) Upsert(ctx context.Context, log *models.CrossTrainingLog) error {
	query := `
		INSERT INTO cross_training_logs (log_date, trainer_id, trainee_id, station_id, hours)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (log_date, trainer_id, trainee_id, station_id) DO UPDATE SET hours = EXCLUDED.hours
		RETURNING id, created_at
	`

	err := database.DB.QueryRow(ctx, query,
		log.LogDate, log.TrainerID, log.TraineeID, log.StationID, log.Hours,
	).Scan(&log.ID, &log.CreatedAt)

	return database.MapError(err)
}

// ListByDate retrieves all sessions for a specific date.
func (r *CrossTrainingLogRepository) ListByDate(ctx context.Context, date time.Time) ([]models.CrossTrainingLog, error) {
	query := `
		SELECT ` + trainingLogColumns + `
		FROM cross_training_logs
		WHERE log_date = $1
		ORDER BY trainer_id, trainee_id
	`
	return r.queryLogs(ctx, query, date)
}

// ListByTrainer retrieves sessions led by one employee, newest first.
func (r *CrossTrainingLogRepository) ListByTrainer(ctx context.Context, trainerID string) ([]models.CrossTrainingLog, error) {
	query := `
		SELECT ` + trainingLogColumns + `
		FROM cross_training_logs
		WHERE trainer_id = $1
		ORDER BY log_date DESC
	`
	return r.queryLogs(ctx, query, trainerID)
}

// ListByTrainee retrieves sessions received by one employee, newest first.
func (r *CrossTrainingLogRepository) ListByTrainee(ctx context.Context, traineeID string) ([]models.CrossTrainingLog, error) {
	query := `
		SELECT ` + trainingLogColumns + `
		FROM cross_training_logs
		WHERE trainee_id = $1
		ORDER BY log_date DESC
	`
	return r.queryLogs(ctx, query, traineeID)
}

// ListByStation retrieves sessions held at one station, newest first.
func (r *CrossTrainingLogRepository) ListByStation(ctx context.Context, stationID string) ([]models.CrossTrainingLog, error) {
	query := `
		SELECT ` + trainingLogColumns + `
		FROM cross_training_logs
		WHERE station_id = $1
		ORDER BY log_date DESC
	`
	return r.queryLogs(ctx, query, stationID)
}

// DeleteByDate removes all sessions for a date.
func (r *CrossTrainingLogRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	_, err := database.DB.Exec(ctx, `DELETE FROM cross_training_logs WHERE log_date = $1`, date)
	return database.MapError(err)
}

func (r *CrossTrainingLogRepository) queryLogs(ctx context.Context, query string, args ...interface{}) ([]models.CrossTrainingLog, error) {
	rows, err := database.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()

	var logs []models.CrossTrainingLog
	for rows.Next() {
		var l models.CrossTrainingLog
		if err := rows.Scan(&l.ID, &l.LogDate, &l.TrainerID, &l.TraineeID, &l.StationID, &l.Hours, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
