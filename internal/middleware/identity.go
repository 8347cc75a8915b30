// Package middleware provides HTTP middleware for crewmatrix: actor
// identity resolution, access-policy enforcement, request logging, and
// security headers.
package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clutchfab/crewmatrix/internal/policy"
)

// ActorHeader carries the caller's identity. There is no authentication in
// development mode: the header is trusted as-is, the way the original
// deployment trusted its front end's session email.
const ActorHeader = "X-Actor-Email"

// AnonymousActor is recorded when no identity header is present.
const AnonymousActor = "local"

// ResolveActor extracts the acting identity from the request and stores it
// in context locals for handlers and the policy layer.
//
// Context Locals Set:
//   - actor_email: identity string, AnonymousActor when absent
func ResolveActor() fiber.Handler {
	return func(c *fiber.Ctx) error {
		email := c.Get(ActorHeader)
		if email == "" {
			email = AnonymousActor
		}

		c.Locals("actor_email", email)
		return c.Next()
	}
}

// ActorFromCtx returns the policy actor for the current request.
// ResolveActor must run earlier in the chain.
func ActorFromCtx(c *fiber.Ctx) policy.Actor {
	email, _ := c.Locals("actor_email").(string)
	if email == "" {
		email = AnonymousActor
	}
	return policy.Actor{
		Email: email,
		IP:    c.IP(),
	}
}
