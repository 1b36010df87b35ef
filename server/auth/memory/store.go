// Package memory provides an in-memory token store implementing
// auth.Authenticator.
package memory

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/itervo/librecur/server/auth"
)

// Token pairs a bearer secret with the principal it authenticates.
type Token struct {
	PrincipalID string
	Secret      string
}

// Store implements an in-memory bearer-token store
type Store struct {
	mu     sync.RWMutex
	tokens map[string]Token // map[principalID]Token
	logger *slog.Logger
}

// New creates a new in-memory token store
func New(opts ...Option) *Store {
	s := &Store{
		tokens: make(map[string]Token),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	// Apply options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Option represents a configuration option for the Store
type Option func(*Store)

// WithLogger sets the logger for the store
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// AddToken registers a bearer secret for a principal
func (s *Store) AddToken(principalID, secret string) error {
	if secret == "" {
		return fmt.Errorf("token secret required for principal: %s", principalID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[principalID]; exists {
		s.logger.Warn("failed to add token: principal already has one",
			"principal_id", principalID)
		return fmt.Errorf("token already registered for principal: %s", principalID)
	}

	s.tokens[principalID] = Token{
		PrincipalID: principalID,
		Secret:      secret,
	}

	s.logger.Info("token added successfully",
		"principal_id", principalID)

	return nil
}

// Authenticate implements auth.Authenticator. Every stored secret is
// compared so lookup time does not depend on which token matches.
func (s *Store) Authenticate(ctx context.Context, creds auth.Credentials) (*auth.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var principal *auth.Principal
	for _, tok := range s.tokens {
		if subtle.ConstantTimeCompare([]byte(tok.Secret), []byte(creds.Token)) == 1 {
			principal = &auth.Principal{ID: tok.PrincipalID}
		}
	}

	if principal == nil {
		s.logger.Info("authentication failed: unknown token")
		return nil, &auth.Error{
			Type:    auth.ErrInvalidCredentials,
			Message: "invalid bearer token",
		}
	}

	s.logger.Debug("authentication successful",
		"principal_id", principal.ID)

	return principal, nil
}

// ValidateAccess implements auth.Authenticator. A token grants access to
// the whole API, so any authenticated principal passes.
func (s *Store) ValidateAccess(ctx context.Context, principal *auth.Principal, path string) error {
	if principal == nil {
		s.logger.Info("access validation failed: no principal")
		return &auth.Error{
			Type:    auth.ErrUnauthorized,
			Message: "authentication required",
		}
	}

	s.logger.Debug("access validation successful",
		"principal_id", principal.ID,
		"path", path)

	return nil
}
