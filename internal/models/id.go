package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID prefixes for the text-keyed entities.
const (
	StationIDPrefix  = "stn"
	EmployeeIDPrefix = "emp"
)

// NewID generates a prefixed identifier like "emp_1a2b3c4d": the prefix,
// an underscore, and the first eight hex characters of a random UUID.
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s_%s", prefix, hex[:8])
}
