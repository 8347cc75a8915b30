// Package main is the entry point for the crewmatrix API server.
// It loads configuration, connects to PostgreSQL, runs migrations, and wires
// every route through the actor-identity and access-policy middleware.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/clutchfab/crewmatrix/internal/config"
	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/handlers"
	"github.com/clutchfab/crewmatrix/internal/middleware"
	"github.com/clutchfab/crewmatrix/internal/policy"
	"github.com/clutchfab/crewmatrix/internal/security"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := database.Connect(cfg.Database); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if cfg.Database.MigrateOnStart {
		if err := database.RunMigrations(cfg.Database); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	securityConfig := security.DefaultSecurityConfig()
	securityLogger := security.NewLogger()
	validator := security.NewValidationService(securityConfig)

	// Alerter is nil: alerts go to the security log only. Wire email or
	// chat delivery here when operating this for real.
	monitor := security.NewSecurityMonitor(securityLogger, securityConfig, nil)

	// Token refill intervals derive from the per-minute budgets.
	batchLimiter := security.NewRateLimiter(
		securityConfig.RateLimitLogBatch,
		time.Minute/time.Duration(securityConfig.RateLimitLogBatch),
	)
	defer batchLimiter.Stop()

	settingsLimiter := security.NewRateLimiter(
		securityConfig.RateLimitSettings,
		time.Minute/time.Duration(securityConfig.RateLimitSettings),
	)
	defer settingsLimiter.Stop()

	// The shipped engine allows every operation on every table, matching
	// the permissive development policies in the database schema. Scoped
	// rules are installed with engine.Use before the routes are attached.
	engine := policy.NewEngine()
	enforcer := middleware.NewPolicyEnforcer(engine, securityLogger, monitor)

	stationHandler := handlers.NewStationHandler(validator, securityLogger, monitor)
	employeeHandler := handlers.NewEmployeeHandler(validator, securityLogger, monitor)
	settingHandler := handlers.NewSettingHandler(validator, securityLogger, monitor)
	assignmentHandler := handlers.NewAssignmentLogHandler(validator, securityLogger, monitor)
	trainingHandler := handlers.NewCrossTrainingLogHandler(validator, securityLogger, monitor)
	auditHandler := handlers.NewAuditHandler(validator, securityLogger, monitor)

	app := fiber.New(fiber.Config{
		AppName: "crewmatrix",
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(securityLogger))
	app.Use(middleware.SecureHeaders())
	app.Use(middleware.ResolveActor())

	app.Get("/healthz", func(c *fiber.Ctx) error {
		if !database.IsConnected() {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Stations
	stations := app.Group("/stations")
	stations.Get("/", enforcer.Require(policy.TableStations, policy.OpSelect), stationHandler.List)
	stations.Get("/:id", enforcer.Require(policy.TableStations, policy.OpSelect), stationHandler.Get)
	stations.Put("/", enforcer.Require(policy.TableStations, policy.OpInsert, policy.OpUpdate), stationHandler.Upsert)
	stations.Delete("/:id", enforcer.Require(policy.TableStations, policy.OpDelete), stationHandler.Delete)

	// Employees, their competencies, and the matrix view
	employees := app.Group("/employees")
	employees.Get("/", enforcer.Require(policy.TableEmployees, policy.OpSelect), employeeHandler.List)
	employees.Get("/:id", enforcer.Require(policy.TableEmployees, policy.OpSelect), employeeHandler.Get)
	employees.Put("/", enforcer.Require(policy.TableEmployees, policy.OpInsert, policy.OpUpdate), employeeHandler.Upsert)
	employees.Patch("/:id/absence", enforcer.Require(policy.TableEmployees, policy.OpUpdate), employeeHandler.SetAbsence)
	employees.Delete("/:id", enforcer.Require(policy.TableEmployees, policy.OpDelete), employeeHandler.Delete)

	employees.Get("/:id/competencies", enforcer.Require(policy.TableCompetencies, policy.OpSelect), employeeHandler.GetCompetencies)
	employees.Put("/:id/competencies", enforcer.Require(policy.TableCompetencies, policy.OpInsert, policy.OpUpdate), employeeHandler.PutCompetency)
	employees.Put("/:id/competencies/sheet", enforcer.Require(policy.TableCompetencies, policy.OpDelete, policy.OpInsert), employeeHandler.PutCompetencySheet)
	employees.Delete("/:id/competencies", enforcer.Require(policy.TableCompetencies, policy.OpDelete), employeeHandler.DeleteCompetencies)

	app.Get("/matrix", enforcer.Require(policy.TableCompetencies, policy.OpSelect), employeeHandler.Matrix)

	// Settings
	settings := app.Group("/settings")
	settings.Get("/", enforcer.Require(policy.TableSettings, policy.OpSelect), settingHandler.List)
	settings.Get("/:key", enforcer.Require(policy.TableSettings, policy.OpSelect), settingHandler.Get)
	settings.Put("/:key",
		enforcer.Require(policy.TableSettings, policy.OpInsert, policy.OpUpdate),
		middleware.RateLimit(settingsLimiter, securityLogger, "settings"),
		settingHandler.Upsert,
	)
	settings.Delete("/:key",
		enforcer.Require(policy.TableSettings, policy.OpDelete),
		middleware.RateLimit(settingsLimiter, securityLogger, "settings"),
		settingHandler.Delete,
	)

	// Assignment logs
	assignments := app.Group("/assignment-logs")
	assignments.Get("/", enforcer.Require(policy.TableAssignmentLogs, policy.OpSelect), assignmentHandler.List)
	assignments.Post("/", enforcer.Require(policy.TableAssignmentLogs, policy.OpInsert, policy.OpUpdate), assignmentHandler.Create)
	assignments.Post("/batch",
		enforcer.Require(policy.TableAssignmentLogs, policy.OpInsert, policy.OpUpdate),
		middleware.RateLimit(batchLimiter, securityLogger, "log_batch"),
		assignmentHandler.CreateBatch,
	)
	assignments.Delete("/", enforcer.Require(policy.TableAssignmentLogs, policy.OpDelete), assignmentHandler.DeleteByDate)

	// Cross-training logs
	trainings := app.Group("/training-logs")
	trainings.Get("/", enforcer.Require(policy.TableCrossTrainingLogs, policy.OpSelect), trainingHandler.List)
	trainings.Post("/", enforcer.Require(policy.TableCrossTrainingLogs, policy.OpInsert, policy.OpUpdate), trainingHandler.Create)
	trainings.Delete("/", enforcer.Require(policy.TableCrossTrainingLogs, policy.OpDelete), trainingHandler.DeleteByDate)

	// Audit trail: append and list only, no update or delete routes.
	audits := app.Group("/audit-logs")
	audits.Get("/", enforcer.Require(policy.TableAuditLogs, policy.OpSelect), auditHandler.ListRecent)
	audits.Post("/", enforcer.Require(policy.TableAuditLogs, policy.OpInsert), auditHandler.Append)

	securityLogger.Info(fmt.Sprintf("crewmatrix listening on port %d (%s)", cfg.Server.Port, cfg.Server.Env))

	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		securityLogger.Critical("Server stopped", err)
		log.Fatalf("Failed to start server: %v", err)
	}
}
