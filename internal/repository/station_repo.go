// Package repository provides the data access layer for crewmatrix.
// Repositories issue raw SQL through the shared database.DB interface and
// fold driver errors into the database package's constraint taxonomy.
package repository

import (
	"context"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
)

// StationRepository handles station-related database operations.
type StationRepository struct{}

// NewStationRepository creates a new StationRepository instance.
func NewStationRepository() *StationRepository {
	return &StationRepository{}
}

// List retrieves all stations ordered by name.
func (r *StationRepository) List(ctx context.Context) ([]models.Station, error) {
	query := `
		SELECT id, name, required_skill_level, required_headcount, required_certification, created_at
		FROM stations
		ORDER BY name
	`

	rows, err := database.DB.Query(ctx, query)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()

	var stations []models.Station
	for rows.Next() {
		var s models.Station
		if err := rows.Scan(
			&s.ID, &s.Name, &s.RequiredSkillLevel, &s.RequiredHeadcount,
			&s.RequiredCertification, &s.CreatedAt,
		); err != nil {
			return nil, err
		}
		stations = append(stations, s)
	}

	return stations, rows.Err()
}

// GetByID retrieves a single station.
// Returns database.ErrNotFound when the id does not exist.
func (r *StationRepository) GetByID(ctx context.Context, id string) (*models.Station, error) {
	query := `
		SELECT id, name, required_skill_level, required_headcount, required_certification, created_at
		FROM stations
		WHERE id = $1
	`

	var s models.Station
	err := database.DB.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.RequiredSkillLevel, &s.RequiredHeadcount,
		&s.RequiredCertification, &s.CreatedAt,
	)
	if err != nil {
		return nil, database.MapError(err)
	}

	return &s, nil
}

// Upsert inserts a station or updates its attributes in place when the id
// already exists. Side effect: populates station.CreatedAt.
func (r *StationRepository) Upsert(ctx context.Context, station *models.Station) error {
	query := `
		INSERT INTO stations (id, name, required_skill_level, required_headcount, required_certification)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			required_skill_level = EXCLUDED.required_skill_level,
			required_headcount = EXCLUDED.required_headcount,
			required_certification = EXCLUDED.required_certification
		RETURNING created_at
	`

	err := database.DB.QueryRow(ctx, query,
		station.ID, station.Name, station.RequiredSkillLevel,
		station.RequiredHeadcount, station.RequiredCertification,
	).Scan(&station.CreatedAt)

	return database.MapError(err)
}

// Delete removes a station. Dependent competency and log rows are removed
// by the schema's ON DELETE CASCADE.
// Returns database.ErrNotFound when the id does not exist.
func (r *StationRepository) Delete(ctx context.Context, id string) error {
	tag, err := database.DB.Exec(ctx, `DELETE FROM stations WHERE id = $1`, id)
	if err != nil {
		return database.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}
