package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/artem13815/contacts/pkg/auth"
	"github.com/artem13815/contacts/pkg/config"
	"github.com/artem13815/contacts/pkg/contact"
	"github.com/artem13815/contacts/pkg/health"
	"github.com/artem13815/contacts/pkg/health/checkers"
	"github.com/artem13815/contacts/pkg/repository/memory"
	mongorepo "github.com/artem13815/contacts/pkg/repository/mongo"
	pgrepo "github.com/artem13815/contacts/pkg/repository/postgres"
	mongostore "github.com/artem13815/contacts/pkg/storage/mongo"
	"github.com/artem13815/contacts/pkg/storage/postgres"
)

// stores are the handles built for the selected driver. close releases
// the underlying connection.
type stores struct {
	users    auth.UserRepository
	contacts contact.Repository
	checkers []health.Checker
	close    func(ctx context.Context)
}

func openStores(ctx context.Context, cfg config.Config, log *slog.Logger) (stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return stores{
			users:    memory.NewUserRepository(),
			contacts: memory.NewContactRepository(),
			close:    func(context.Context) {},
		}, nil

	case config.DriverMongo:
		client, err := mongostore.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return stores{}, err
		}
		db := client.Database(cfg.MongoDatabase)
		users, err := mongorepo.NewUserRepository(ctx, db)
		if err != nil {
			_ = client.Disconnect(ctx)
			return stores{}, fmt.Errorf("init user repo: %w", err)
		}
		contacts, err := mongorepo.NewContactRepository(ctx, db)
		if err != nil {
			_ = client.Disconnect(ctx)
			return stores{}, fmt.Errorf("init contact repo: %w", err)
		}
		return stores{
			users:    users,
			contacts: contacts,
			checkers: []health.Checker{checkers.NewMongoChecker(client)},
			close: func(ctx context.Context) {
				if err := client.Disconnect(ctx); err != nil {
					log.Warn("mongo disconnect", slog.Any("error", err))
				}
			},
		}, nil

	default:
		pool, err := postgres.Connect(ctx, postgres.Options{DSN: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
		if err != nil {
			return stores{}, err
		}
		// users first: contacts reference it
		users, err := pgrepo.NewUserRepository(pool)
		if err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("init user repo: %w", err)
		}
		contacts, err := pgrepo.NewContactRepository(pool)
		if err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("init contact repo: %w", err)
		}
		return stores{
			users:    users,
			contacts: contacts,
			checkers: []health.Checker{checkers.NewPostgresChecker(pool)},
			close:    func(context.Context) { pool.Close() },
		}, nil
	}
}
