// Package handlers_test exercises the HTTP layer end to end: a fiber app
// with the real middleware chain, handlers, and repositories, against a
// pgxmock pool injected into the database package.
package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/handlers"
	"github.com/clutchfab/crewmatrix/internal/middleware"
	"github.com/clutchfab/crewmatrix/internal/policy"
	"github.com/clutchfab/crewmatrix/internal/security"
)

// newMockDB creates a pgxmock pool and installs it as the global database
// connection for the duration of the test.
func newMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = mock
	t.Cleanup(func() {
		database.DB = oldDB
		mock.Close()
	})

	return mock
}

// newStationApp wires the station routes the way cmd/server does, policy
// enforcement included.
func newStationApp(engine *policy.Engine) *fiber.App {
	logger := security.NewLogger()
	validator := security.NewValidationService(security.DefaultSecurityConfig())
	handler := handlers.NewStationHandler(validator, logger, nil)
	enforcer := middleware.NewPolicyEnforcer(engine, logger, nil)

	app := fiber.New()
	app.Use(middleware.ResolveActor())
	app.Get("/stations/:id", enforcer.Require(policy.TableStations, policy.OpSelect), handler.Get)
	app.Put("/stations", enforcer.Require(policy.TableStations, policy.OpInsert, policy.OpUpdate), handler.Upsert)
	app.Delete("/stations/:id", enforcer.Require(policy.TableStations, policy.OpDelete), handler.Delete)
	return app
}

// doJSON sends a JSON request as a named actor and returns the status and
// body.
func doJSON(t *testing.T, app *fiber.App, method, target string, body interface{}) (int, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ActorHeader, "tester@example.com")

	resp, err := app.Test(req)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, payload
}

func TestStationHandler_Upsert(t *testing.T) {
	testTime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	t.Run("creates station and writes audit row", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery("INSERT INTO stations").
			WithArgs("stn_1a2b3c4d", "Paint Booth", 2, 1, 1).
			WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(testTime))
		mock.ExpectQuery("INSERT INTO audit_logs").
			WithArgs("tester@example.com", "UPSERT_STATION", pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), testTime))

		status, payload := doJSON(t, newStationApp(policy.NewEngine()), "PUT", "/stations", map[string]interface{}{
			"id":                     "stn_1a2b3c4d",
			"name":                   "Paint Booth",
			"required_skill_level":   2,
			"required_headcount":     1,
			"required_certification": 1,
		})

		assert.Equal(t, fiber.StatusOK, status)
		assert.Contains(t, string(payload), "Paint Booth")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects invalid skill level before touching the database", func(t *testing.T) {
		mock := newMockDB(t)

		status, payload := doJSON(t, newStationApp(policy.NewEngine()), "PUT", "/stations", map[string]interface{}{
			"id":                   "stn_1a2b3c4d",
			"name":                 "Paint Booth",
			"required_skill_level": 9,
		})

		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, string(payload), "skill level")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps not-null violation to 422", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectQuery("INSERT INTO stations").
			WithArgs("stn_1a2b3c4d", "Paint Booth", 0, 1, 0).
			WillReturnError(&pgconn.PgError{Code: "23502", ColumnName: "name"})

		status, _ := doJSON(t, newStationApp(policy.NewEngine()), "PUT", "/stations", map[string]interface{}{
			"id":                 "stn_1a2b3c4d",
			"name":               "Paint Booth",
			"required_headcount": 1,
		})

		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestStationHandler_Upsert_DeniedUpdateRule verifies that a scoped rule
// denying updates blocks the upsert route outright: the ON CONFLICT DO
// UPDATE statement can rewrite an existing row, so the update rule is
// consulted even though the route also inserts. The mock pool carries no
// expectations, proving the request never reaches the database.
func TestStationHandler_Upsert_DeniedUpdateRule(t *testing.T) {
	mock := newMockDB(t)

	engine := policy.NewEngine()
	engine.Use(policy.TableStations, policy.OpUpdate, func(policy.Actor) bool { return false })

	status, payload := doJSON(t, newStationApp(engine), "PUT", "/stations", map[string]interface{}{
		"id":                     "stn_1a2b3c4d",
		"name":                   "Paint Booth",
		"required_skill_level":   2,
		"required_headcount":     1,
		"required_certification": 1,
	})

	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Contains(t, string(payload), "denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStationHandler_Get_NotFound(t *testing.T) {
	mock := newMockDB(t)

	mock.ExpectQuery("SELECT id, name").
		WithArgs("stn_deadbeef").
		WillReturnError(pgx.ErrNoRows)

	status, _ := doJSON(t, newStationApp(policy.NewEngine()), "GET", "/stations/stn_deadbeef", nil)

	assert.Equal(t, fiber.StatusNotFound, status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStationHandler_Delete(t *testing.T) {
	testTime := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

	t.Run("deletes and audits", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectExec("DELETE FROM stations").
			WithArgs("stn_1a2b3c4d").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectQuery("INSERT INTO audit_logs").
			WithArgs("tester@example.com", "DELETE_STATION", "station stn_1a2b3c4d").
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(int64(2), testTime))

		status, _ := doJSON(t, newStationApp(policy.NewEngine()), "DELETE", "/stations/stn_1a2b3c4d", nil)

		assert.Equal(t, fiber.StatusNoContent, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing id returns 404", func(t *testing.T) {
		mock := newMockDB(t)

		mock.ExpectExec("DELETE FROM stations").
			WithArgs("stn_deadbeef").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		status, _ := doJSON(t, newStationApp(policy.NewEngine()), "DELETE", "/stations/stn_deadbeef", nil)

		assert.Equal(t, fiber.StatusNotFound, status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
