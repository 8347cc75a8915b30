// Input validation for API payloads. All validation methods return
// descriptive errors that are safe to show to callers.
package security

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ValidationService provides centralized input validation functions.
type ValidationService struct {
	config *SecurityConfig
}

// NewValidationService creates a validation service with the given
// security configuration.
func NewValidationService(config *SecurityConfig) *ValidationService {
	return &ValidationService{
		config: config,
	}
}

// idPattern matches generated identifiers ("emp_1a2b3c4d") as well as
// hand-assigned slugs imported from spreadsheets.
var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateID validates an entity identifier.
func (v *ValidationService) ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}

	if len(id) > v.config.MaxIDLength {
		return fmt.Errorf("id must be %d characters or less", v.config.MaxIDLength)
	}

	if !idPattern.MatchString(id) {
		return fmt.Errorf("id may contain only letters, digits, hyphens and underscores")
	}

	return nil
}

// ValidateName validates a station or employee display name.
func (v *ValidationService) ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}

	if utf8.RuneCountInString(name) > v.config.MaxNameLength {
		return fmt.Errorf("name must be %d characters or less", v.config.MaxNameLength)
	}

	return nil
}

// ValidateHours validates a logged hours value against the numeric(4,1)
// column: positive, magnitude under 1000, at most one fractional digit.
// Out-of-range and over-precise values are rejected outright rather than
// rounded, so stored hours always round-trip exactly.
func (v *ValidationService) ValidateHours(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return fmt.Errorf("hours must be a number")
	}

	if hours <= 0 {
		return fmt.Errorf("hours must be greater than zero")
	}

	if hours >= 1000 {
		return fmt.Errorf("hours must be less than 1000")
	}

	// One fractional digit: the value scaled by ten must be whole.
	scaled := hours * 10
	if math.Abs(scaled-math.Round(scaled)) > 1e-9 {
		return fmt.Errorf("hours may have at most one decimal place")
	}

	return nil
}

// ValidateLogDate validates a "YYYY-MM-DD" date string and returns the
// parsed date.
func (v *ValidationService) ValidateLogDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("log_date is required")
	}

	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("log_date must be in YYYY-MM-DD format")
	}

	return d, nil
}

// ValidateSkillLevel validates a competency or required skill level on the
// 0-4 scale.
func (v *ValidationService) ValidateSkillLevel(level int) error {
	if level < 0 || level > 4 {
		return fmt.Errorf("skill level must be between 0 and 4")
	}
	return nil
}

// ValidateCertificationLevel validates a certification tier on the 0-2
// scale (None, Apprentice, Licensed).
func (v *ValidationService) ValidateCertificationLevel(level int) error {
	if level < 0 || level > 2 {
		return fmt.Errorf("certification level must be between 0 and 2")
	}
	return nil
}

// ValidateHeadcount validates a station's required headcount.
func (v *ValidationService) ValidateHeadcount(n int) error {
	if n < 1 {
		return fmt.Errorf("required headcount must be at least 1")
	}
	return nil
}

// ValidateSettingKey validates a settings key.
func (v *ValidationService) ValidateSettingKey(key string) error {
	if key == "" {
		return fmt.Errorf("setting key is required")
	}

	if len(key) > v.config.MaxSettingKeyLen {
		return fmt.Errorf("setting key must be %d characters or less", v.config.MaxSettingKeyLen)
	}

	if !idPattern.MatchString(key) {
		return fmt.Errorf("setting key may contain only letters, digits, hyphens and underscores")
	}

	return nil
}

// ValidateSettingValue validates a settings payload: well-formed JSON
// within the size limit.
func (v *ValidationService) ValidateSettingValue(value json.RawMessage) error {
	if len(value) == 0 {
		return fmt.Errorf("setting value is required")
	}

	if len(value) > v.config.MaxSettingValueLen {
		return fmt.Errorf("setting value must be %d bytes or less", v.config.MaxSettingValueLen)
	}

	if !json.Valid(value) {
		return fmt.Errorf("setting value must be valid JSON")
	}

	return nil
}

// ValidateAuditAction validates an audit action label.
func (v *ValidationService) ValidateAuditAction(action string) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return fmt.Errorf("action is required")
	}

	if utf8.RuneCountInString(action) > v.config.MaxNameLength {
		return fmt.Errorf("action must be %d characters or less", v.config.MaxNameLength)
	}

	return nil
}

// ValidateAuditDetails validates the free-text details field.
func (v *ValidationService) ValidateAuditDetails(details string) error {
	if utf8.RuneCountInString(details) > v.config.MaxDetailsLength {
		return fmt.Errorf("details must be %d characters or less", v.config.MaxDetailsLength)
	}
	return nil
}

// ValidateBatchSize validates a bulk upsert's row count.
func (v *ValidationService) ValidateBatchSize(n int) error {
	if n == 0 {
		return fmt.Errorf("batch is empty")
	}
	if n > v.config.MaxBatchSize {
		return fmt.Errorf("batch must contain %d rows or fewer", v.config.MaxBatchSize)
	}
	return nil
}
