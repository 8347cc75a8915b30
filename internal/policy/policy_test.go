package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEngine_DefaultAllowsEverything verifies the shipped configuration:
// no table/operation pair blocks a caller, anonymous or named.
func TestEngine_DefaultAllowsEverything(t *testing.T) {
	engine := NewEngine()

	actors := []Actor{
		{Email: "local"},
		{Email: "max@example.com", IP: "10.0.0.7"},
	}

	for _, table := range Tables {
		for _, op := range Operations {
			for _, actor := range actors {
				err := engine.Authorize(table, op, actor)
				assert.NoError(t, err, "%s %s should be allowed for %q", op, table, actor.Email)
			}
		}
	}
}

// TestEngine_ScopedRule verifies a replaced rule denies non-matching actors
// while the rest of the engine stays permissive.
func TestEngine_ScopedRule(t *testing.T) {
	engine := NewEngine()
	engine.Use(TableEmployees, OpDelete, func(a Actor) bool {
		return a.Email == "admin@example.com"
	})

	err := engine.Authorize(TableEmployees, OpDelete, Actor{Email: "local"})
	assert.ErrorIs(t, err, ErrDenied)

	err = engine.Authorize(TableEmployees, OpDelete, Actor{Email: "admin@example.com"})
	assert.NoError(t, err)

	// Sibling operations on the same table are untouched.
	err = engine.Authorize(TableEmployees, OpSelect, Actor{Email: "local"})
	assert.NoError(t, err)

	// Same operation on other tables is untouched.
	err = engine.Authorize(TableStations, OpDelete, Actor{Email: "local"})
	assert.NoError(t, err)
}

// TestEngine_NilRuleDenies verifies that registering a nil rule fails closed.
func TestEngine_NilRuleDenies(t *testing.T) {
	engine := NewEngine()
	engine.Use(TableAuditLogs, OpDelete, nil)

	err := engine.Authorize(TableAuditLogs, OpDelete, Actor{Email: "local"})
	assert.ErrorIs(t, err, ErrDenied)
}

// TestEngine_UnknownPairDenies verifies an unregistered pair fails closed
// rather than silently allowing.
func TestEngine_UnknownPairDenies(t *testing.T) {
	engine := &Engine{rules: map[ruleKey]Rule{}}

	err := engine.Authorize(TableStations, OpSelect, Actor{Email: "local"})
	assert.ErrorIs(t, err, ErrDenied)
}

// TestEngine_DeniedErrorNamesOperation verifies the denial message carries
// enough context for the security log.
func TestEngine_DeniedErrorNamesOperation(t *testing.T) {
	engine := NewEngine()
	engine.Use(TableSettings, OpUpdate, func(Actor) bool { return false })

	err := engine.Authorize(TableSettings, OpUpdate, Actor{Email: "intruder@example.com"})
	assert.ErrorIs(t, err, ErrDenied)
	assert.Contains(t, err.Error(), "update")
	assert.Contains(t, err.Error(), "settings")
	assert.Contains(t, err.Error(), "intruder@example.com")
}
