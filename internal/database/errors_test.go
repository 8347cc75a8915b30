package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

// TestMapError verifies that pgx driver errors fold into the sentinel
// taxonomy handlers rely on for status mapping.
func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want error
	}{
		{
			name: "nil stays nil",
			in:   nil,
			want: nil,
		},
		{
			name: "no rows becomes not found",
			in:   pgx.ErrNoRows,
			want: ErrNotFound,
		},
		{
			name: "foreign key violation",
			in:   &pgconn.PgError{Code: "23503", ConstraintName: "assignment_logs_employee_id_fkey"},
			want: ErrForeignKeyViolation,
		},
		{
			name: "unique violation",
			in:   &pgconn.PgError{Code: "23505", ConstraintName: "assignment_logs_unique"},
			want: ErrUniqueViolation,
		},
		{
			name: "not null violation",
			in:   &pgconn.PgError{Code: "23502", ColumnName: "log_date"},
			want: ErrNotNullViolation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.in)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

// TestMapError_PassThrough verifies unrelated errors are returned unchanged.
func TestMapError_PassThrough(t *testing.T) {
	in := fmt.Errorf("connection refused")
	got := MapError(in)
	assert.Equal(t, in, got)

	// An unrecognized SQLSTATE is also passed through untouched.
	pgErr := &pgconn.PgError{Code: "42P01", Message: "relation does not exist"}
	got = MapError(pgErr)
	var out *pgconn.PgError
	assert.True(t, errors.As(got, &out))
	assert.Equal(t, "42P01", out.Code)
}

// TestMapError_ConstraintContext verifies the violated constraint name is
// carried in the wrapped message for log lines.
func TestMapError_ConstraintContext(t *testing.T) {
	err := MapError(&pgconn.PgError{Code: "23505", ConstraintName: "cross_training_logs_unique"})
	assert.ErrorIs(t, err, ErrUniqueViolation)
	assert.Contains(t, err.Error(), "cross_training_logs_unique")
}
