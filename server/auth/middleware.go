package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const (
	// PrincipalContextKey is the context key for the authenticated principal
	PrincipalContextKey contextKey = "principal"
)

// GetPrincipalFromContext retrieves the authenticated principal from the context
func GetPrincipalFromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalContextKey).(*Principal); ok {
		return p
	}
	return nil
}

// Middleware creates HTTP middleware that enforces bearer-token
// authentication on every request.
func Middleware(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract credentials from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				requestAuth(w)
				return
			}

			creds, err := parseBearerToken(authHeader)
			if err != nil {
				requestAuth(w)
				return
			}

			// Authenticate the caller
			principal, err := authenticator.Authenticate(r.Context(), creds)
			if err != nil {
				requestAuth(w)
				return
			}

			// Validate access to the requested path
			if err := authenticator.ValidateAccess(r.Context(), principal, r.URL.Path); err != nil {
				var authErr *Error
				if errors.As(err, &authErr) && authErr.Type == ErrForbidden {
					http.Error(w, "Forbidden", http.StatusForbidden)
					return
				}
				requestAuth(w)
				return
			}

			// Store principal in context
			ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)

			// Call next handler with updated context
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requestAuth sends WWW-Authenticate header
func requestAuth(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// parseBearerToken parses an RFC 6750 bearer Authorization header
func parseBearerToken(auth string) (Credentials, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return Credentials{}, &Error{
			Type:    ErrInvalidCredentials,
			Message: "invalid authorization header format",
		}
	}

	token := strings.TrimSpace(auth[len(prefix):])
	if token == "" {
		return Credentials{}, &Error{
			Type:    ErrInvalidCredentials,
			Message: "empty bearer token",
		}
	}

	return Credentials{Token: token}, nil
}
