package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itervo/librecur/server/auth"
	"github.com/itervo/librecur/server/auth/memory"
)

// protectedHandler records the principal the middleware put in context.
func protectedHandler(principal **auth.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*principal = auth.GetPrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_RejectsMissingHeader(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.AddToken("alice", "secret"))

	var principal *auth.Principal
	handler := auth.Middleware(store)(protectedHandler(&principal))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calendars", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	assert.Nil(t, principal)
}

func TestMiddleware_RejectsMalformedHeader(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.AddToken("alice", "secret"))

	var principal *auth.Principal
	handler := auth.Middleware(store)(protectedHandler(&principal))

	for _, header := range []string{"Basic abc", "Bearer", "Bearer   "} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/calendars", nil)
		req.Header.Set("Authorization", header)
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
	assert.Nil(t, principal)
}

func TestMiddleware_RejectsUnknownToken(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.AddToken("alice", "secret"))

	var principal *auth.Principal
	handler := auth.Middleware(store)(protectedHandler(&principal))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/calendars", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, principal)
}

func TestMiddleware_PutsPrincipalInContext(t *testing.T) {
	store := memory.New()
	require.NoError(t, store.AddToken("alice", "secret"))

	var principal *auth.Principal
	handler := auth.Middleware(store)(protectedHandler(&principal))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/calendars", nil)
	req.Header.Set("Authorization", "Bearer secret")
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, "alice", principal.ID)
}

func TestGetPrincipalFromContext_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, auth.GetPrincipalFromContext(req.Context()))
}
