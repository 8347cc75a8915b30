package models

import "encoding/json"

// Well-known setting keys. The value schemas below are conventions, not
// contracts; the settings table stores arbitrary JSON.
const (
	SettingSkillLabels      = "skill_labels"
	SettingCertLabels       = "cert_labels"
	SettingCompetencyColors = "competency_colors"
)

// Hours recorded when a log entry does not specify them, matching the
// database column defaults.
const (
	DefaultShiftHours    = 8.0
	DefaultTrainingHours = 8.0
)

// DefaultSkillLabels maps the 0-4 skill scale to display labels.
var DefaultSkillLabels = map[string]string{
	"0": "N/A",
	"1": "General",
	"2": "Intermediate",
	"3": "Licensed",
	"4": "Trainer",
}

// DefaultCertLabels maps the 0-2 certification scale to display labels.
var DefaultCertLabels = map[string]string{
	"0": "None",
	"1": "Apprentice",
	"2": "Licensed Mechanic",
}

// DefaultCompetencyColors maps skill levels to matrix cell colors,
// a red-to-green gradient for quick visual scanning.
var DefaultCompetencyColors = map[string]string{
	"0": "#E8E8E8",
	"1": "#F8D7DA",
	"2": "#FFE5B4",
	"3": "#D4EDDA",
	"4": "#28A745",
}

// DefaultSettings returns the seed settings rows for a fresh database.
func DefaultSettings() []Setting {
	mustJSON := func(v interface{}) json.RawMessage {
		b, err := json.Marshal(v)
		if err != nil {
			panic(err) // static inputs, cannot fail
		}
		return b
	}

	return []Setting{
		{Key: SettingSkillLabels, Value: mustJSON(DefaultSkillLabels)},
		{Key: SettingCertLabels, Value: mustJSON(DefaultCertLabels)},
		{Key: SettingCompetencyColors, Value: mustJSON(DefaultCompetencyColors)},
	}
}
