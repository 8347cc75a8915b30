package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/clutchfab/crewmatrix/internal/security"
)

// RequestLogger logs every HTTP request with actor context as a structured
// JSON line.
func RequestLogger(logger *security.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		email, _ := c.Locals("actor_email").(string)
		logger.SecurityEvent("REQUEST", email, c.IP(), c.Get("User-Agent"),
			map[string]interface{}{
				"method":      c.Method(),
				"path":        c.Path(),
				"status":      status,
				"duration_ms": time.Since(start).Milliseconds(),
			})

		return err
	}
}

// SecureHeaders sets the standard hardening headers on every response.
func SecureHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "no-referrer")
		c.Set("Cache-Control", "no-store")

		return c.Next()
	}
}
