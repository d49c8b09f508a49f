package sqlite

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"demohub/internal/domain/entity"
	domainerrors "demohub/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupStore(t *testing.T) *CredentialStore {
	t.Helper()

	store, err := Open(context.Background(), ":memory:", discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestOpen_EmptyPath(t *testing.T) {
	store, err := Open(context.Background(), "", discardLogger)
	assert.Nil(t, store)
	assert.True(t, errors.Is(err, domainerrors.ErrConfiguration))
}

func TestLoad_EmptyDatabase(t *testing.T) {
	store := setupStore(t)

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSaveAndLoad_PreservesOrderAndFields(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	in := entity.Credentials{
		{Username: "zoe", PasswordHash: "h1", Access: []string{"chat", "ekm"}, IsActive: true},
		{Username: "adam", PasswordHash: "h2"},
	}
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "zoe", out[0].Username)
	assert.Equal(t, "h1", out[0].PasswordHash)
	assert.Equal(t, []string{"chat", "ekm"}, out[0].Access)
	assert.True(t, out[0].IsActive)

	assert.Equal(t, "adam", out[1].Username)
	assert.Equal(t, []string{}, out[1].Access)
	assert.False(t, out[1].IsActive)
}

func TestSave_ReplacesWholeSet(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, entity.Credentials{{Username: "alice"}, {Username: "bob"}}))
	require.NoError(t, store.Save(ctx, entity.Credentials{{Username: "carol"}}))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "carol", out[0].Username)
}

func TestSave_DuplicateUsernameRollsBack(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, entity.Credentials{{Username: "alice"}}))

	err := store.Save(ctx, entity.Credentials{{Username: "bob"}, {Username: "bob"}})
	assert.True(t, errors.Is(err, domainerrors.ErrStoreUnavailable), "got %v", err)

	out, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "alice", out[0].Username)
}

func TestUpdate_CallbackErrorRollsBack(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, entity.Credentials{{Username: "alice"}}))

	boom := errors.New("boom")
	err := store.Update(ctx, func(records entity.Credentials) (entity.Credentials, error) {
		return append(records, &entity.Credential{Username: "bob"}), boom
	})
	assert.ErrorIs(t, err, boom)

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestUpdate_ConcurrentWriters(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := store.Update(ctx, func(records entity.Credentials) (entity.Credentials, error) {
				return append(records, &entity.Credential{Username: fmt.Sprintf("user-%d", n)}), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	out, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 20)
}

func TestOpen_FileDatabaseSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "credentials.db")

	store, err := Open(ctx, path, discardLogger)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, entity.Credentials{{Username: "alice", Access: []string{"saic"}}}))
	require.NoError(t, store.Close())

	reopened, err := Open(ctx, path, discardLogger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	out, err := reopened.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"saic"}, out[0].Access)
}

func TestOpen_LogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	store, err := Open(context.Background(), ":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	assert.Contains(t, buf.String(), "SQLite credential store initialized")
	assert.Contains(t, buf.String(), ":memory:")
}
