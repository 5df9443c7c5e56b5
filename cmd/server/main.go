// @title         Contact Manager API
// @version       0.0.1
// @description   Register, log in, then manage your own contacts with the returned bearer token.
// @BasePath      /
// @schemes       http
// @host          localhost:3000
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token: "Bearer <JWT>". Tokens expire 30 minutes after login.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	httpapi "github.com/artem13815/contacts/api/http"
	"github.com/artem13815/contacts/api/http/handlers"
	_ "github.com/artem13815/contacts/docs"
	"github.com/artem13815/contacts/pkg/auth"
	"github.com/artem13815/contacts/pkg/config"
	"github.com/artem13815/contacts/pkg/contact"
	"github.com/artem13815/contacts/pkg/health"
	"github.com/artem13815/contacts/pkg/logging"
	"github.com/artem13815/contacts/pkg/security/jwt"
)

func main() {
	if err := run(); err != nil {
		slog.Default().Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		st.close(closeCtx)
	}()

	tokens := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer)
	authUC := auth.NewAuthService(st.users, tokens)
	contactUC := contact.NewService(st.contacts)
	readiness := health.NewService(st.checkers...)

	app := httpapi.NewApp(httpapi.Options{
		Logger:      log,
		Production:  cfg.IsProduction(),
		CORSOrigins: cfg.CORSOrigins,
	}, httpapi.Handlers{
		Auth:    handlers.NewAuthHandler(authUC),
		Contact: handlers.NewContactHandler(contactUC),
		Health:  handlers.NewHealthHandler(readiness, cfg.StoreDriver, cfg.Port),
	}, jwt.NewAuthMiddleware(tokens, time.Now))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
