// Package models defines the domain entities and data transfer objects for
// crewmatrix. It includes database models mapped to PostgreSQL tables, form
// DTOs for API input, and view models for matrix responses.
package models

import (
	"encoding/json"
	"time"
)

// ============================================================================
// Domain Models (Database Entities)
// ============================================================================

// Station represents a work location with staffing and skill requirements.
//
// Database Table: stations
type Station struct {
	ID                    string    `db:"id" json:"id"`                                         // Text primary key, e.g. "stn_1a2b3c4d"
	Name                  string    `db:"name" json:"name"`                                     // Display name
	RequiredSkillLevel    int       `db:"required_skill_level" json:"required_skill_level"`     // Minimum skill level (0-4)
	RequiredHeadcount     int       `db:"required_headcount" json:"required_headcount"`         // Minimum staff per day
	RequiredCertification int       `db:"required_certification" json:"required_certification"` // 0=None, 1=Apprentice, 2=Licensed
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}

// Employee represents a worker with a certification tier and absence flag.
//
// Database Table: employees
type Employee struct {
	ID                 string    `db:"id" json:"id"` // Text primary key, e.g. "emp_1a2b3c4d"
	Name               string    `db:"name" json:"name"`
	CertificationLevel int       `db:"certification_level" json:"certification_level"` // 0=None, 1=Apprentice, 2=Licensed
	IsAbsent           bool      `db:"is_absent" json:"is_absent"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// Competency records an employee's skill level at a specific station.
// At most one row exists per (employee, station) pair; rows cascade-delete
// with either parent.
//
// Database Table: competencies
type Competency struct {
	EmployeeID string `db:"employee_id" json:"employee_id"`
	StationID  string `db:"station_id" json:"station_id"`
	Level      int    `db:"level" json:"level"` // 0-4 scale
}

// Setting is an arbitrary key/value configuration entry. The value is an
// opaque JSON document (custom skill labels, certification labels, matrix
// colors); the application does not impose a schema on it.
//
// Database Table: settings
type Setting struct {
	Key   string          `db:"key" json:"key"`
	Value json.RawMessage `db:"value" json:"value"`
}

// AssignmentLog is a historical record: one employee worked one station on
// one date for N hours. Unique per (log_date, employee_id, station_id);
// cascade-deletes with either parent.
//
// Database Table: assignment_logs
type AssignmentLog struct {
	ID         int64     `db:"id" json:"id"`
	LogDate    time.Time `db:"log_date" json:"log_date"`
	EmployeeID string    `db:"employee_id" json:"employee_id"`
	StationID  string    `db:"station_id" json:"station_id"`
	Hours      float64   `db:"hours" json:"hours"` // numeric(4,1), default 8.0
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CrossTrainingLog records a supervised training session: one employee
// (trainer) teaches another (trainee) a station's duties on a date.
// Unique per (log_date, trainer_id, trainee_id, station_id).
//
// Database Table: cross_training_logs
type CrossTrainingLog struct {
	ID        int64     `db:"id" json:"id"`
	LogDate   time.Time `db:"log_date" json:"log_date"`
	TrainerID string    `db:"trainer_id" json:"trainer_id"`
	TraineeID string    `db:"trainee_id" json:"trainee_id"`
	StationID string    `db:"station_id" json:"station_id"`
	Hours     float64   `db:"hours" json:"hours"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AuditLog is an append-only record of an actor performing an action.
// Deliberately has no foreign keys: entries must survive deletion of any
// employee or station they mention.
//
// Database Table: audit_logs
// Immutability Note: entries are never updated or deleted by the
// application once created.
type AuditLog struct {
	ID        int64     `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UserEmail string    `db:"user_email" json:"user_email"` // Acting identity ("local" when anonymous)
	Action    string    `db:"action" json:"action"`         // Action label, e.g. "UPSERT_STATION"
	Details   string    `db:"details" json:"details"`       // Free-text detail
}

// ============================================================================
// Data Transfer Objects (DTOs) - API Input
// ============================================================================

// StationForm carries station create/update input. An empty ID means the
// server generates one.
type StationForm struct {
	ID                    string `json:"id"`
	Name                  string `json:"name"`
	RequiredSkillLevel    int    `json:"required_skill_level"`
	RequiredHeadcount     int    `json:"required_headcount"`
	RequiredCertification int    `json:"required_certification"`
}

// EmployeeForm carries employee create/update input.
type EmployeeForm struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	CertificationLevel int    `json:"certification_level"`
	IsAbsent           bool   `json:"is_absent"`
}

// AbsenceForm toggles an employee's absence flag.
type AbsenceForm struct {
	IsAbsent bool `json:"is_absent"`
}

// CompetencyForm sets one employee's level at one station.
type CompetencyForm struct {
	StationID string `json:"station_id"`
	Level     int    `json:"level"`
}

// CompetencySheetForm replaces all of an employee's competencies at once
// (station id -> level), matching the matrix editor's save semantics.
type CompetencySheetForm struct {
	Competencies map[string]int `json:"competencies"`
}

// SettingForm carries a setting upsert.
type SettingForm struct {
	Value json.RawMessage `json:"value"`
}

// AssignmentLogForm carries a single assignment log entry.
type AssignmentLogForm struct {
	LogDate    string  `json:"log_date"` // "YYYY-MM-DD"
	EmployeeID string  `json:"employee_id"`
	StationID  string  `json:"station_id"`
	Hours      float64 `json:"hours"`
}

// AssignmentLogBatchForm carries the finalized logs for a day.
type AssignmentLogBatchForm struct {
	Logs []AssignmentLogForm `json:"logs"`
}

// CrossTrainingLogForm carries a single training session record.
type CrossTrainingLogForm struct {
	LogDate   string  `json:"log_date"`
	TrainerID string  `json:"trainer_id"`
	TraineeID string  `json:"trainee_id"`
	StationID string  `json:"station_id"`
	Hours     float64 `json:"hours"`
}

// AuditEntryForm carries an explicit audit append from the client.
type AuditEntryForm struct {
	Action  string `json:"action"`
	Details string `json:"details"`
}

// ============================================================================
// View Models - API Responses
// ============================================================================

// EmployeeMatrixRow is an employee with their competency map attached, the
// shape the matrix UI consumes.
type EmployeeMatrixRow struct {
	Employee
	StationCompetencies map[string]int `json:"station_competencies"` // station id -> level
}

// MatrixView bundles the whole dataset for a single load.
type MatrixView struct {
	Stations  []Station           `json:"stations"`
	Employees []EmployeeMatrixRow `json:"employees"`
}
