// Package store owns the client's durable auth state: the bearer credential
// and a denormalized copy of the user record kept for optimistic first paint.
//
// The credential is the single source of truth for "a session may exist";
// the cached user is display-only and must never gate access to protected
// actions. All writes go through the session controller.
package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/dmitrijs2005/quizdeck/internal/client/models"
	"github.com/dmitrijs2005/quizdeck/internal/dbx"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// Store persists the credential and the provisional user cache in the local
// SQLite metadata table.
type Store struct {
	db *sql.DB
}

// NewStore wraps an initialized local database. A nil db yields a degraded
// store that reports no credential and swallows writes, so the app behaves
// as unauthenticated when local storage is unavailable.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Token returns the persisted credential, or "" when none is stored or
// storage is unavailable. It never fails: an unreadable credential is the
// same as no credential.
func (s *Store) Token(ctx context.Context) string {
	if s.db == nil {
		return ""
	}
	v, err := metadataGet(ctx, s.db, keyToken)
	if err != nil {
		return ""
	}
	return string(v)
}

// HasToken reports whether a credential is currently persisted.
func (s *Store) HasToken(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// SaveToken overwrites the persisted credential.
func (s *Store) SaveToken(ctx context.Context, token string) error {
	if s.db == nil {
		return nil
	}
	return metadataSet(ctx, s.db, keyToken, []byte(token))
}

// SaveCredentials persists a fresh credential together with its user record
// in one transaction, so storage never holds a token paired with a stale
// user snapshot.
func (s *Store) SaveCredentials(ctx context.Context, token string, user *models.User) error {
	if s.db == nil {
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := metadataSet(ctx, tx, keyToken, []byte(token)); err != nil {
			return err
		}
		return metadataSet(ctx, tx, keyUser, raw)
	})
}

// SaveUser refreshes the provisional user cache.
func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	if s.db == nil {
		return nil
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return metadataSet(ctx, s.db, keyUser, raw)
}

// CachedUser returns the provisional user record, or nil when absent or
// unreadable. Callers must treat the value as unverified display data.
func (s *Store) CachedUser(ctx context.Context) *models.User {
	if s.db == nil {
		return nil
	}
	raw, err := metadataGet(ctx, s.db, keyUser)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return &u
}

// Clear removes the credential and the cached user. Clearing an already
// empty store is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := metadataDelete(ctx, tx, keyToken); err != nil {
			return err
		}
		return metadataDelete(ctx, tx, keyUser)
	})
}
