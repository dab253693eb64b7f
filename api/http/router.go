package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/placeshare/places/api/http/handlers"
	"github.com/placeshare/places/api/http/presenter"
)

// Register wires all HTTP routes onto given Fiber app. The places group
// registers its public reads before the auth middleware, so only the
// mutating routes require a token — same ordering contract as the guard
// expects.
func Register(app *fiber.App, auth *handlers.AuthHandler, place *handlers.PlaceHandler, health *handlers.HealthHandler, authMW fiber.Handler) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", health.Health)
	api.Get("/ready", health.Ready)

	u := api.Group("/users")
	u.Get("/", auth.Users)
	u.Post("/signup", auth.Signup)
	u.Post("/login", auth.Login)

	p := api.Group("/places")
	p.Get("/user/:uid", place.ListByUser)
	p.Get("/:pid", place.GetByID)

	// Token required for everything below this point.
	p.Use(authMW)
	p.Post("/", place.Create)
	p.Patch("/:pid", place.Update)
	p.Delete("/:pid", place.Delete)

	// Unknown routes answer 404 instead of fiber's default text body.
	app.Use(func(c *fiber.Ctx) error {
		return presenter.Error(c, fiber.StatusNotFound, "Could not find this route")
	})
}
