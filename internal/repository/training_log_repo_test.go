package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
	"github.com/clutchfab/crewmatrix/internal/repository"
)

// TestCrossTrainingLogRepository_Create mirrors the assignment-log
// uniqueness contract over the wider (date, trainer, trainee, station)
// tuple.
func TestCrossTrainingLogRepository_Create(t *testing.T) {
	testTime := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)

	tests := []struct {
		name        string
		mockSetup   func(pgxmock.PgxPoolIface)
		expectError error
	}{
		{
			name: "first insert succeeds",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), testTime)
				mock.ExpectQuery("INSERT INTO cross_training_logs").
					WithArgs(logDate, "emp_1a2b3c4d", "emp_ffee0099", "stn_00aa11bb", 8.0).
					WillReturnRows(rows)
			},
		},
		{
			name: "duplicate session rejected",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO cross_training_logs").
					WithArgs(logDate, "emp_1a2b3c4d", "emp_ffee0099", "stn_00aa11bb", 8.0).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "cross_training_logs_unique"})
			},
			expectError: database.ErrUniqueViolation,
		},
		{
			name: "nonexistent trainee rejected",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("INSERT INTO cross_training_logs").
					WithArgs(logDate, "emp_1a2b3c4d", "emp_ffee0099", "stn_00aa11bb", 8.0).
					WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "cross_training_logs_trainee_id_fkey"})
			},
			expectError: database.ErrForeignKeyViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockDB(t)
			tt.mockSetup(mock)

			repo := repository.NewCrossTrainingLogRepository()
			log := &models.CrossTrainingLog{
				LogDate:   logDate,
				TrainerID: "emp_1a2b3c4d",
				TraineeID: "emp_ffee0099",
				StationID: "stn_00aa11bb",
				Hours:     8.0,
			}
			err := repo.Create(context.Background(), log)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(1), log.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// A session differing in any tuple field is a distinct row; swapping
// trainer and trainee must not collide with the original session.
func TestCrossTrainingLogRepository_Create_SwappedRolesDistinct(t *testing.T) {
	testTime := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)
	mock := newMockDB(t)

	rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(2), testTime)
	mock.ExpectQuery("INSERT INTO cross_training_logs").
		WithArgs(logDate, "emp_ffee0099", "emp_1a2b3c4d", "stn_00aa11bb", 8.0).
		WillReturnRows(rows)

	repo := repository.NewCrossTrainingLogRepository()
	log := &models.CrossTrainingLog{
		LogDate:   logDate,
		TrainerID: "emp_ffee0099",
		TraineeID: "emp_1a2b3c4d",
		StationID: "stn_00aa11bb",
		Hours:     8.0,
	}

	require.NoError(t, repo.Create(context.Background(), log))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCrossTrainingLogRepository_Upsert(t *testing.T) {
	testTime := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)
	mock := newMockDB(t)

	rows := pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), testTime)
	mock.ExpectQuery("INSERT INTO cross_training_logs(.+)ON CONFLICT").
		WithArgs(logDate, "emp_1a2b3c4d", "emp_ffee0099", "stn_00aa11bb", 4.0).
		WillReturnRows(rows)

	repo := repository.NewCrossTrainingLogRepository()
	log := &models.CrossTrainingLog{
		LogDate:   logDate,
		TrainerID: "emp_1a2b3c4d",
		TraineeID: "emp_ffee0099",
		StationID: "stn_00aa11bb",
		Hours:     4.0,
	}

	require.NoError(t, repo.Upsert(context.Background(), log))
	assert.Equal(t, int64(3), log.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCrossTrainingLogRepository_ListByTrainee(t *testing.T) {
	testTime := time.Date(2026, 8, 25, 7, 30, 0, 0, time.UTC)
	mock := newMockDB(t)

	rows := pgxmock.NewRows([]string{"id", "log_date", "trainer_id", "trainee_id", "station_id", "hours", "created_at"}).
		AddRow(int64(1), logDate, "emp_1a2b3c4d", "emp_ffee0099", "stn_00aa11bb", 8.0, testTime)

	mock.ExpectQuery("SELECT(.+)FROM cross_training_logs").
		WithArgs("emp_ffee0099").
		WillReturnRows(rows)

	repo := repository.NewCrossTrainingLogRepository()
	logs, err := repo.ListByTrainee(context.Background(), "emp_ffee0099")

	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "emp_1a2b3c4d", logs[0].TrainerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
