package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clutchfab/crewmatrix/internal/policy"
	"github.com/clutchfab/crewmatrix/internal/security"
)

// PolicyEnforcer evaluates the access-policy engine in front of every
// table-backed route and reports denials to the security monitor.
type PolicyEnforcer struct {
	engine  *policy.Engine
	logger  *security.Logger
	monitor *security.SecurityMonitor
}

// NewPolicyEnforcer creates a policy enforcement middleware factory.
// monitor may be nil to disable denial tracking.
func NewPolicyEnforcer(engine *policy.Engine, logger *security.Logger, monitor *security.SecurityMonitor) *PolicyEnforcer {
	return &PolicyEnforcer{
		engine:  engine,
		logger:  logger,
		monitor: monitor,
	}
}

// Require returns a handler gating the route on the engine's rules for the
// table and every listed operation. Denials return 403 and never reach the
// handler.
//
// Routes whose SQL can execute more than one statement class list all of
// them: an upsert (INSERT ... ON CONFLICT DO UPDATE) passes both the insert
// and update rules, and a replace (DELETE then INSERT) passes delete and
// insert, matching how the database evaluates its policies for those
// statements. Both rules must allow even when the request ends up only
// inserting, which is stricter than the database for that case.
//
// Example:
//
//	stations := app.Group("/stations")
//	stations.Put("/",
//	    enforcer.Require(policy.TableStations, policy.OpInsert, policy.OpUpdate),
//	    stationHandler.Upsert,
//	)
func (pe *PolicyEnforcer) Require(table policy.Table, ops ...policy.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromCtx(c)

		for _, op := range ops {
			if err := pe.engine.Authorize(table, op, actor); err != nil {
				pe.logger.SecurityEvent(security.EventPolicyDenied, actor.Email, actor.IP, c.Get("User-Agent"),
					map[string]interface{}{
						"table":     string(table),
						"operation": string(op),
						"path":      c.Path(),
					})
				if pe.monitor != nil {
					pe.monitor.RecordDenial(actor.Email)
				}

				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "operation denied by access policy",
				})
			}
		}

		return c.Next()
	}
}

// RateLimit gates a route on a token-bucket limiter keyed by actor email.
func RateLimit(limiter *security.RateLimiter, logger *security.Logger, endpointName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromCtx(c)

		if !limiter.Allow(actor.Email) {
			logger.SecurityEvent(security.EventRateLimitExceeded, actor.Email, actor.IP, c.Get("User-Agent"),
				map[string]interface{}{
					"endpoint": endpointName,
				})

			c.Set("Retry-After", "60")
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded, please try again later",
			})
		}

		return c.Next()
	}
}
