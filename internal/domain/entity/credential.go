// Package entity contains the core business objects of the project.
package entity

import (
	"slices"
	"time"
)

// Credential is the persisted record of a single account.
// The JSON layout matches the legacy db.json document.
type Credential struct {
	Username     string   `json:"username"`  // Unique and immutable once created.
	PasswordHash string   `json:"password"`  // Hasher output, never the plaintext.
	Access       []string `json:"access"`    // Capability strings, in order. May be empty.
	IsActive     bool     `json:"is_active"` // Inactive accounts cannot obtain a session.
}

// Credentials is the full, flat record set held by a credential store.
type Credentials []*Credential

// Find returns the record for username, or nil. It is a linear scan; record
// counts are expected to stay small.
func (cs Credentials) Find(username string) *Credential {
	for _, c := range cs {
		if c.Username == username {
			return c
		}
	}

	return nil
}

// Contains reports whether a record for username exists.
func (cs Credentials) Contains(username string) bool {
	return cs.Find(username) != nil
}

// Clone returns a deep copy so callers can mutate without touching a store's
// cached state.
func (cs Credentials) Clone() Credentials {
	out := make(Credentials, 0, len(cs))
	for _, c := range cs {
		if c == nil {
			continue
		}
		cp := *c
		cp.Access = slices.Clone(c.Access)
		out = append(out, &cp)
	}

	return out
}

// Principal is the authenticated identity handed to assistant collaborators.
type Principal struct {
	Username string   `json:"username"`
	Access   []string `json:"access"`

	// ExpiresAt is the expiry of the token the principal was derived from.
	ExpiresAt time.Time `json:"-"`
}

// HasAccess reports whether the principal holds the given capability.
func (p *Principal) HasAccess(capability string) bool {
	return slices.Contains(p.Access, capability)
}
