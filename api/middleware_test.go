package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func callAuthenticated(t *testing.T, m authMiddleware, token string) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	if token != "" {
		req.Header.Set(adminTokenHeader, token)
	}
	rec := httptest.NewRecorder()
	m.authenticate(next).ServeHTTP(rec, req)
	return rec
}

func TestAuthenticate(t *testing.T) {
	m := newAuthMiddleware("current-secret", "previous-secret")

	t.Run("current token passes", func(t *testing.T) {
		rec := callAuthenticated(t, m, "current-secret")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("previous token passes during rotation", func(t *testing.T) {
		rec := callAuthenticated(t, m, "previous-secret")
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		rec := callAuthenticated(t, m, "guess")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token rejected", func(t *testing.T) {
		rec := callAuthenticated(t, m, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthenticate_NoPreviousToken(t *testing.T) {
	m := newAuthMiddleware("current-secret", "")

	rec := callAuthenticated(t, m, "previous-secret")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_UnconfiguredTokenRejectsEverything(t *testing.T) {
	m := newAuthMiddleware("", "")

	rec := callAuthenticated(t, m, "anything")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
