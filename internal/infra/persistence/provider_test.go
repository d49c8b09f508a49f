package persistence

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"demohub/config"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/infra/persistence/jsonfile"
	"demohub/internal/infra/persistence/memory"
	"demohub/internal/infra/persistence/sqlite"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func newParams(t *testing.T, store *config.CredentialStoreConfig) (StoreParams, *fxtest.Lifecycle) {
	t.Helper()

	lc := fxtest.NewLifecycle(t)

	return StoreParams{
		Lc:     lc,
		Ctx:    context.Background(),
		Config: &config.Config{CredentialStore: store},
		Logger: slog.New(slog.DiscardHandler),
	}, lc
}

func TestNewCredentialStore_Drivers(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		cfg   *config.CredentialStoreConfig
		check func(t *testing.T, store any)
	}{
		{
			name: "file",
			cfg:  &config.CredentialStoreConfig{Driver: config.StoreDriverFile, Path: filepath.Join(dir, "db.json")},
			check: func(t *testing.T, store any) {
				assert.IsType(t, &jsonfile.CredentialStore{}, store)
			},
		},
		{
			name: "memory",
			cfg:  &config.CredentialStoreConfig{Driver: config.StoreDriverMemory},
			check: func(t *testing.T, store any) {
				assert.IsType(t, &memory.CredentialStore{}, store)
			},
		},
		{
			name: "sqlite",
			cfg:  &config.CredentialStoreConfig{Driver: config.StoreDriverSQLite, Path: filepath.Join(dir, "credentials.db")},
			check: func(t *testing.T, store any) {
				assert.IsType(t, &sqlite.CredentialStore{}, store)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, lc := newParams(t, tt.cfg)

			store, err := NewCredentialStore(params)
			require.NoError(t, err)
			tt.check(t, store)

			lc.RequireStart()
			records, err := store.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, records)
			lc.RequireStop()
		})
	}
}

func TestNewCredentialStore_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.CredentialStoreConfig
	}{
		{name: "missing section", cfg: nil},
		{name: "unknown driver", cfg: &config.CredentialStoreConfig{Driver: "redis"}},
		{name: "file without path", cfg: &config.CredentialStoreConfig{Driver: config.StoreDriverFile}},
		{name: "postgres without section", cfg: &config.CredentialStoreConfig{Driver: config.StoreDriverPostgres}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, _ := newParams(t, tt.cfg)

			store, err := NewCredentialStore(params)
			assert.Nil(t, store)
			assert.True(t, errors.Is(err, domainerrors.ErrConfiguration), "got %v", err)
		})
	}
}
