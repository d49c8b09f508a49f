package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"demohub/internal/domain/entity"
	domainerrors "demohub/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyDocument = `[
    {
        "username": "alice",
        "password": "$2b$12$abcdefghijklmnopqrstuuD5bRkKx2y3tQ3Y0yJ2m1nUu9q7rG2xW",
        "access": ["chat", "image_rag"],
        "is_active": true
    },
    {
        "username": "bob",
        "password": "$2b$12$abcdefghijklmnopqrstuuD5bRkKx2y3tQ3Y0yJ2m1nUu9q7rG2xW",
        "access": [],
        "is_active": false
    }
]`

func newTestStore(t *testing.T) *CredentialStore {
	t.Helper()

	store, err := NewCredentialStore(filepath.Join(t.TempDir(), "db.json"))
	require.NoError(t, err)

	return store
}

func TestNewCredentialStore_EmptyPath(t *testing.T) {
	store, err := NewCredentialStore("")
	assert.Nil(t, store)
	assert.True(t, errors.Is(err, domainerrors.ErrConfiguration))
}

func TestCredentialStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCredentialStore_LoadEmptyFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte("  \n"), 0o600))

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCredentialStore_LoadLegacyDocument(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.WriteFile(store.Path(), []byte(legacyDocument), 0o600))

	records, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	alice := records.Find("alice")
	require.NotNil(t, alice)
	assert.Equal(t, []string{"chat", "image_rag"}, alice.Access)
	assert.True(t, alice.IsActive)

	bob := records.Find("bob")
	require.NotNil(t, bob)
	assert.Empty(t, bob.Access)
	assert.False(t, bob.IsActive)
}

func TestCredentialStore_LoadMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "{not json"},
		{name: "object instead of array", content: `{"username":"alice"}`},
		{name: "null record", content: `[null]`},
		{name: "record without username", content: `[{"password":"x"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			require.NoError(t, os.WriteFile(store.Path(), []byte(tt.content), 0o600))

			records, err := store.Load(context.Background())
			assert.Nil(t, records)
			assert.True(t, errors.Is(err, domainerrors.ErrStoreUnavailable), "got %v", err)
		})
	}
}

func TestCredentialStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := entity.Credentials{
		{Username: "alice", PasswordHash: "h1", Access: []string{"chat"}, IsActive: true},
		{Username: "bob", PasswordHash: "h2"},
	}
	require.NoError(t, store.Save(ctx, in))

	out, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "alice", out[0].Username)
	assert.Equal(t, "bob", out[1].Username)
	assert.Equal(t, []string{}, out[1].Access)

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"access": []`)
	assert.Contains(t, string(raw), `"password": "h1"`)
	assert.Contains(t, string(raw), `"is_active": true`)
}

func TestCredentialStore_SaveLeavesNoTempFiles(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(context.Background(), entity.Credentials{{Username: "alice"}}))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "db.json", entries[0].Name())
}

func TestCredentialStore_SaveUnwritableDirectory(t *testing.T) {
	store, err := NewCredentialStore(filepath.Join(t.TempDir(), "missing", "db.json"))
	require.NoError(t, err)

	err = store.Save(context.Background(), entity.Credentials{{Username: "alice"}})
	assert.True(t, errors.Is(err, domainerrors.ErrStoreUnavailable), "got %v", err)
}

func TestCredentialStore_UpdateCallbackErrorPersistsNothing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, entity.Credentials{{Username: "alice"}}))

	boom := errors.New("boom")
	err := store.Update(ctx, func(records entity.Credentials) (entity.Credentials, error) {
		return append(records, &entity.Credential{Username: "bob"}), boom
	})
	assert.ErrorIs(t, err, boom)

	records, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCredentialStore_UpdateCancelledContextPersistsNothing(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	err := store.Update(ctx, func(records entity.Credentials) (entity.Credentials, error) {
		cancel()
		return append(records, &entity.Credential{Username: "bob"}), nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestCredentialStore_ConcurrentUpdates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const writers = 25
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			err := store.Update(ctx, func(records entity.Credentials) (entity.Credentials, error) {
				return append(records, &entity.Credential{Username: fmt.Sprintf("user-%02d", n)}), nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	records, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, records, writers)
	for i := range writers {
		assert.True(t, records.Contains(fmt.Sprintf("user-%02d", i)))
	}
}
