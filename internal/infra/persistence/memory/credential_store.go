// Package memory provides an in-process credential store for tests and local runs.
package memory

import (
	"context"
	"sync"

	"demohub/internal/domain/entity"
	"demohub/internal/domain/repository"
	"demohub/internal/errors"
)

// CredentialStore keeps the record set in memory. Records are copied on the
// way in and out so callers never share state with the store.
type CredentialStore struct {
	mu      sync.Mutex
	records entity.Credentials
}

var _ repository.CredentialStore = (*CredentialStore)(nil)

// NewCredentialStore returns a store seeded with a copy of seed.
func NewCredentialStore(seed ...*entity.Credential) *CredentialStore {
	return &CredentialStore{records: entity.Credentials(seed).Clone()}
}

func (s *CredentialStore) Load(ctx context.Context) (entity.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "load credentials")
	}

	return s.records.Clone(), nil
}

func (s *CredentialStore) Save(ctx context.Context, records entity.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "save credentials")
	}

	s.records = records.Clone()

	return nil
}

func (s *CredentialStore) Update(ctx context.Context, fn repository.MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := fn(s.records.Clone())
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "update credentials")
	}

	s.records = updated.Clone()

	return nil
}
