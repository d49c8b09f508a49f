// Package jsonfile stores the credential set as a single JSON document on disk.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"demohub/internal/domain/entity"
	domainerrors "demohub/internal/domain/errors"
	"demohub/internal/domain/repository"
	"demohub/internal/errors"
)

const filePerm = 0o600

// CredentialStore keeps every record in one JSON array that is rewritten in
// full on each save. The file is replaced through a temp file and rename, so
// readers never observe a partially written document.
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

var _ repository.CredentialStore = (*CredentialStore)(nil)

// NewCredentialStore returns a store backed by the file at path. The file does
// not need to exist yet.
func NewCredentialStore(path string) (*CredentialStore, error) {
	if path == "" {
		return nil, domainerrors.ErrConfiguration.WithDetails("credential store path must be provided")
	}

	return &CredentialStore{path: path}, nil
}

// Path returns the location of the backing document.
func (s *CredentialStore) Path() string {
	return s.path
}

// Load reads the whole record set. A missing or empty file is an empty set.
func (s *CredentialStore) Load(ctx context.Context) (entity.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "load credentials")
	}

	return s.read()
}

// Save replaces the document with records.
func (s *CredentialStore) Save(ctx context.Context, records entity.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "save credentials")
	}

	return s.write(records)
}

// Update holds the store lock across read, fn and write.
func (s *CredentialStore) Update(ctx context.Context, fn repository.MutateFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return err
	}

	updated, err := fn(records)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "update credentials")
	}

	return s.write(updated)
}

func (s *CredentialStore) read() (entity.Credentials, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return entity.Credentials{}, nil
	}
	if err != nil {
		return nil, domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return entity.Credentials{}, nil
	}

	var records entity.Credentials
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, domainerrors.ErrStoreUnavailable.WithDetails("malformed credential document: " + err.Error())
	}

	out := make(entity.Credentials, 0, len(records))
	for _, r := range records {
		if r == nil || r.Username == "" {
			return nil, domainerrors.ErrStoreUnavailable.WithDetails("malformed credential document: record without username")
		}
		out = append(out, r)
	}

	return out, nil
}

func (s *CredentialStore) write(records entity.Credentials) error {
	data, err := encode(records)
	if err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}
	tmpName := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}
	if err := tmp.Close(); err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return domainerrors.ErrStoreUnavailable.WithDetails(err.Error())
	}
	committed = true

	return nil
}

// encode renders records with an empty access list as [] rather than null,
// matching documents written by earlier versions of the service.
func encode(records entity.Credentials) ([]byte, error) {
	doc := make([]entity.Credential, 0, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		c := *r
		if c.Access == nil {
			c.Access = []string{}
		}
		doc = append(doc, c)
	}

	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, errors.Wrap(err, "encode credentials")
	}

	return append(data, '\n'), nil
}
