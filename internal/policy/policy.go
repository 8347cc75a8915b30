// Package policy implements the per-table, per-operation access rules that
// mirror the row-level-security policies in the database schema.
//
// The shipped configuration is permissive: every table allows every
// operation to any caller, matching the development policies in the
// migrations. Production deployments install scoped rules with Engine.Use;
// what those rules should look like is deliberately left to the deployment.
package policy

import (
	"errors"
	"fmt"
)

// ErrDenied is returned by Authorize when a rule rejects the operation.
// The HTTP layer surfaces it as 403 Forbidden. Under the default allow-all
// engine it never triggers.
var ErrDenied = errors.New("operation denied by access policy")

// Operation is one of the four statement classes a policy can gate,
// matching the four database policies each table carries.
type Operation string

const (
	OpSelect Operation = "select"
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Table identifies a policy-gated table.
type Table string

const (
	TableStations          Table = "stations"
	TableEmployees         Table = "employees"
	TableCompetencies      Table = "competencies"
	TableSettings          Table = "settings"
	TableAssignmentLogs    Table = "assignment_logs"
	TableCrossTrainingLogs Table = "cross_training_logs"
	TableAuditLogs         Table = "audit_logs"
)

// Tables lists every policy-gated table.
var Tables = []Table{
	TableStations,
	TableEmployees,
	TableCompetencies,
	TableSettings,
	TableAssignmentLogs,
	TableCrossTrainingLogs,
	TableAuditLogs,
}

// Operations lists the four statement classes.
var Operations = []Operation{OpSelect, OpInsert, OpUpdate, OpDelete}

// Actor is the identity attempting an operation. Email is "local" for
// anonymous callers in development mode.
type Actor struct {
	Email string
	IP    string
}

// Rule decides whether an actor may perform an operation. Returning false
// denies the request.
type Rule func(actor Actor) bool

// AllowAll is the permissive development rule, the code-side twin of the
// database's USING (true) policies.
func AllowAll(Actor) bool { return true }

type ruleKey struct {
	table Table
	op    Operation
}

// Engine evaluates access rules per table and operation.
type Engine struct {
	rules map[ruleKey]Rule
}

// NewEngine returns an engine with every table/operation pair set to
// AllowAll.
func NewEngine() *Engine {
	e := &Engine{rules: make(map[ruleKey]Rule, len(Tables)*len(Operations))}
	for _, table := range Tables {
		for _, op := range Operations {
			e.rules[ruleKey{table, op}] = AllowAll
		}
	}
	return e
}

// Use replaces the rule for one table/operation pair. A nil rule denies
// unconditionally.
func (e *Engine) Use(table Table, op Operation, rule Rule) {
	e.rules[ruleKey{table, op}] = rule
}

// Authorize evaluates the configured rule for the table/operation pair.
// It returns nil when the operation is allowed and an error wrapping
// ErrDenied otherwise. An unknown table/operation pair is denied.
func (e *Engine) Authorize(table Table, op Operation, actor Actor) error {
	rule, ok := e.rules[ruleKey{table, op}]
	if !ok || rule == nil {
		return fmt.Errorf("%w: no rule for %s %s", ErrDenied, op, table)
	}
	if !rule(actor) {
		return fmt.Errorf("%w: %s %s for %q", ErrDenied, op, table, actor.Email)
	}
	return nil
}
