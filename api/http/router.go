package http

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	swagger "github.com/gofiber/swagger"

	"github.com/artem13815/contacts/api/http/handlers"
)

// Options configure the Fiber app.
type Options struct {
	Logger      *slog.Logger
	Production  bool
	CORSOrigins string
}

// Handlers groups the route handlers wired by main.
type Handlers struct {
	Auth    *handlers.AuthHandler
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
}

// NewApp builds the Fiber app with the error handler and middleware chain
// and registers all routes.
func NewApp(opts Options, h Handlers, authMW fiber.Handler) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.CORSOrigins == "" {
		opts.CORSOrigins = "*"
	}
	app := fiber.New(fiber.Config{
		AppName:               "contacts-service",
		ErrorHandler:          handlers.NewErrorHandler(opts.Logger, !opts.Production),
		DisableStartupMessage: true,
	})
	for _, mw := range middlewares(opts) {
		app.Use(mw)
	}
	Register(app, h, authMW)
	return app
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers, authMW fiber.Handler) {
	app.Get("/", h.Health.Root)
	app.Get("/health", h.Health.Health)
	app.Get("/ready", h.Health.Ready)
	app.Get("/api-docs/*", swagger.HandlerDefault)

	u := app.Group("/user")
	u.Post("/register", h.Auth.Register)
	u.Post("/login", h.Auth.Login)
	u.Get("/current", authMW, h.Auth.Current)

	// Every contact route requires a verified caller.
	ct := app.Group("/contact", authMW)
	ct.Get("/", h.Contact.List)
	ct.Post("/", h.Contact.Create)
	ct.Get("/:id", h.Contact.Get)
	ct.Put("/:id", h.Contact.Update)
	ct.Patch("/:id", h.Contact.Update)
	ct.Delete("/:id", h.Contact.Delete)
}
