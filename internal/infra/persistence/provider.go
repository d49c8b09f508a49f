// Package persistence selects the credential store backend from configuration.
package persistence

import (
	"context"
	"io"
	"log/slog"

	"demohub/config"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/domain/repository"
	"demohub/internal/infra/persistence/jsonfile"
	"demohub/internal/infra/persistence/memory"
	"demohub/internal/infra/persistence/postgres"
	"demohub/internal/infra/persistence/sqlite"

	"go.uber.org/fx"
)

// StoreParams holds dependencies for the credential store, injected by Fx
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewCredentialStore creates the CredentialStore named by credentialStore.driver.
func NewCredentialStore(params StoreParams) (repository.CredentialStore, error) {
	cfg := params.Config.CredentialStore
	logger := params.Logger

	if cfg == nil {
		return nil, domainerrors.ErrConfiguration.WithDetails("credentialStore section is missing")
	}

	switch cfg.Driver {
	case config.StoreDriverFile:
		logger.Info("Using JSON file credential store", slog.String("path", cfg.Path))

		store, err := jsonfile.NewCredentialStore(cfg.Path)
		if err != nil {
			return nil, err
		}

		return store, nil

	case config.StoreDriverMemory:
		logger.Warn("Using in-memory credential store, records are lost on restart")

		return memory.NewCredentialStore(), nil

	case config.StoreDriverSQLite:
		logger.Info("Using SQLite credential store", slog.String("path", cfg.Path))

		store, err := sqlite.Open(params.Ctx, cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		appendCloseHook(params.Lc, logger, store)

		return store, nil

	case config.StoreDriverPostgres:
		logger.Info("Using PostgreSQL credential store")

		db, err := postgres.Open(params.Config, logger)
		if err != nil {
			return nil, err
		}
		store := postgres.NewCredentialStore(db, logger)
		params.Lc.Append(fx.Hook{
			OnStart: store.Start,
		})
		appendCloseHook(params.Lc, logger, store)

		return store, nil

	default:
		return nil, domainerrors.ErrConfiguration.WithDetails("unknown credential store driver: " + cfg.Driver)
	}
}

func appendCloseHook(lc fx.Lifecycle, logger *slog.Logger, closer io.Closer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing credential store")

			return closer.Close()
		},
	})
}

// Module provides the credential store FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewCredentialStore),
)
