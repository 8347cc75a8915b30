package repository

import (
	"context"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
)

// AuditRepository handles the audit trail.
//
// Audit entries carry no foreign keys: they record what happened and must
// survive the deletion of any employee or station they mention. The
// repository deliberately exposes no update or delete methods; entries are
// append-only in intent (the permissive database policies do not enforce
// this, matching the schema).
type AuditRepository struct{}

// NewAuditRepository creates a new AuditRepository instance.
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// Log appends an audit entry recording an actor performing an action.
// Side effect: populates log.ID and log.CreatedAt.
func (r *AuditRepository) Log(ctx context.Context, log *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (user_email, action, details)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := database.DB.QueryRow(ctx, query,
		log.UserEmail, log.Action, log.Details,
	).Scan(&log.ID, &log.CreatedAt)

	return database.MapError(err)
}

// ListRecent retrieves the most recent audit entries, newest first.
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	query := `
		SELECT id, created_at, user_email, action, details
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := database.DB.Query(ctx, query, limit)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.CreatedAt, &l.UserEmail, &l.Action, &l.Details); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	return logs, rows.Err()
}
