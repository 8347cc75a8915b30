package security

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator() *ValidationService {
	return NewValidationService(DefaultSecurityConfig())
}

// TestValidateHours covers the numeric(4,1) contract: positive, magnitude
// under 1000, at most one fractional digit. Out-of-spec values are
// rejected, not rounded.
func TestValidateHours(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		hours   float64
		wantErr bool
	}{
		{"default shift", 8.0, false},
		{"half hour granularity", 7.5, false},
		{"tenth granularity", 0.1, false},
		{"largest storable", 999.9, false},
		{"zero", 0, true},
		{"negative", -4.0, true},
		{"magnitude overflow", 12345.6, true},
		{"exactly 1000", 1000.0, true},
		{"two decimal places", 8.25, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateHours(tt.hours)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateID("emp_1a2b3c4d"))
	assert.NoError(t, v.ValidateID("stn_00ff00ff"))
	assert.NoError(t, v.ValidateID("station-12"))

	assert.Error(t, v.ValidateID(""))
	assert.Error(t, v.ValidateID("has space"))
	assert.Error(t, v.ValidateID("_leading"))
	assert.Error(t, v.ValidateID(strings.Repeat("a", 65)))
}

func TestValidateName(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateName("Paint Booth 3"))
	assert.Error(t, v.ValidateName(""))
	assert.Error(t, v.ValidateName("   "))
	assert.Error(t, v.ValidateName(strings.Repeat("x", 201)))
}

func TestValidateLogDate(t *testing.T) {
	v := newTestValidator()

	d, err := v.ValidateLogDate("2026-08-25")
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 25, d.Day())

	_, err = v.ValidateLogDate("")
	assert.Error(t, err)
	_, err = v.ValidateLogDate("25/08/2026")
	assert.Error(t, err)
	_, err = v.ValidateLogDate("2026-13-01")
	assert.Error(t, err)
}

func TestValidateLevels(t *testing.T) {
	v := newTestValidator()

	for level := 0; level <= 4; level++ {
		assert.NoError(t, v.ValidateSkillLevel(level))
	}
	assert.Error(t, v.ValidateSkillLevel(-1))
	assert.Error(t, v.ValidateSkillLevel(5))

	for level := 0; level <= 2; level++ {
		assert.NoError(t, v.ValidateCertificationLevel(level))
	}
	assert.Error(t, v.ValidateCertificationLevel(3))

	assert.NoError(t, v.ValidateHeadcount(1))
	assert.Error(t, v.ValidateHeadcount(0))
}

func TestValidateSetting(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateSettingKey("skill_labels"))
	assert.Error(t, v.ValidateSettingKey(""))
	assert.Error(t, v.ValidateSettingKey("bad key"))

	assert.NoError(t, v.ValidateSettingValue(json.RawMessage(`{"0":"N/A"}`)))
	assert.NoError(t, v.ValidateSettingValue(json.RawMessage(`"plain string"`)))
	assert.Error(t, v.ValidateSettingValue(nil))
	assert.Error(t, v.ValidateSettingValue(json.RawMessage(`{"unclosed":`)))

	huge := json.RawMessage(`"` + strings.Repeat("a", 64*1024) + `"`)
	assert.Error(t, v.ValidateSettingValue(huge))
}

func TestValidateBatchSize(t *testing.T) {
	v := newTestValidator()

	assert.Error(t, v.ValidateBatchSize(0))
	assert.NoError(t, v.ValidateBatchSize(1))
	assert.NoError(t, v.ValidateBatchSize(500))
	assert.Error(t, v.ValidateBatchSize(501))
}

func TestValidateAuditFields(t *testing.T) {
	v := newTestValidator()

	assert.NoError(t, v.ValidateAuditAction("UPSERT_STATION"))
	assert.Error(t, v.ValidateAuditAction(""))
	assert.Error(t, v.ValidateAuditAction("  "))

	assert.NoError(t, v.ValidateAuditDetails("deleted employee emp_1a2b3c4d"))
	assert.Error(t, v.ValidateAuditDetails(strings.Repeat("d", 2001)))
}
