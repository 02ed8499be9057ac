package tenancy

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// SessionStore owns the current bearer credential. Mutation happens only
// through SetCredential and Clear; every other component reads through
// Credential and Roles. Safe for concurrent use.
type SessionStore struct {
	mu      sync.RWMutex
	claims  *SessionClaims
	storage TokenStorage
	logger  Logger
	now     func() time.Time
}

// NewSessionStore returns a store backed by the given durable TokenStorage.
func NewSessionStore(storage TokenStorage) *SessionStore {
	return &SessionStore{
		storage: storage,
		logger:  defLogger{},
		now:     time.Now,
	}
}

// WithLogger sets the logger used for storage and decode failures.
func (s *SessionStore) WithLogger(logger Logger) *SessionStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithClock injects a custom clock (useful for tests).
func (s *SessionStore) WithClock(clock func() time.Time) *SessionStore {
	if clock != nil {
		s.now = clock
	}
	return s
}

// Restore loads a previously persisted token, if any. A persisted token that
// no longer decodes is dropped from storage rather than surfaced: a corrupt
// token is an anonymous session, not an error.
func (s *SessionStore) Restore(ctx context.Context) error {
	raw, err := s.storage.GetToken(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read persisted credential")
	}

	if raw == "" {
		return nil
	}

	claims, err := DecodeToken(raw)
	if err != nil {
		s.logger.Warn("Dropping undecodable persisted token", "error", err)
		if clearErr := s.storage.Clear(ctx); clearErr != nil {
			s.logger.Error("Failed to clear undecodable persisted token", "error", clearErr)
		}
		return nil
	}

	s.mu.Lock()
	s.claims = claims
	s.mu.Unlock()

	return nil
}

// SetCredential decodes and stores a new bearer token. The previous
// credential is discarded only after the new token decodes and persists, so
// the store is never left half-updated.
func (s *SessionStore) SetCredential(ctx context.Context, raw string) error {
	claims, err := DecodeToken(raw)
	if err != nil {
		s.logger.Error("SetCredential decode failed", "error", err)
		return err
	}

	if err := s.storage.SetToken(ctx, raw); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to persist credential")
	}

	s.mu.Lock()
	s.claims = claims
	s.mu.Unlock()

	s.logger.Debug("Credential updated", "subject", claims.Subject())
	return nil
}

// Credential returns the current credential, or nil for an anonymous
// session. Expiry is checked on every read: a token whose exp has passed
// since it was set behaves exactly like no token at all.
func (s *SessionStore) Credential() Credential {
	s.mu.RLock()
	claims := s.claims
	s.mu.RUnlock()

	if claims == nil {
		return nil
	}

	if expiry := claims.Expiry(); !expiry.IsZero() && !expiry.After(s.now()) {
		return nil
	}

	return claims
}

// Roles returns the normalized role set of the current credential, or an
// empty set for an anonymous session.
func (s *SessionStore) Roles() []string {
	cred := s.Credential()
	if cred == nil {
		return nil
	}
	return cred.Roles()
}

// RawToken returns the compact token for request authorization, or empty for
// an anonymous session.
func (s *SessionStore) RawToken() string {
	cred := s.Credential()
	if cred == nil {
		return ""
	}
	return cred.RawToken()
}

// Clear removes the credential from memory and durable storage. Idempotent.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.claims = nil
	s.mu.Unlock()

	if err := s.storage.Clear(ctx); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to clear persisted credential")
	}
	return nil
}
