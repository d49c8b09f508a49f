// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"demohub/internal/domain/entity"
)

// MutateFunc receives the current record set and returns the set to persist.
// Returning an error aborts the update and nothing is written.
type MutateFunc func(records entity.Credentials) (entity.Credentials, error)

// CredentialStore persists the full credential record set. There is no
// partial-update API: callers load, mutate in memory and save everything.
//
// Failures are reported as domain errors.ErrStoreUnavailable.
type CredentialStore interface {
	// Load returns every persisted record.
	Load(ctx context.Context) (entity.Credentials, error)

	// Save replaces the entire persisted set.
	Save(ctx context.Context, records entity.Credentials) error

	// Update runs load, fn and save as one critical section for this store
	// instance, so concurrent writers cannot lose each other's changes.
	Update(ctx context.Context, fn MutateFunc) error
}
