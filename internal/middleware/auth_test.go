package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmatch/backend/internal/domain"
	"github.com/trailmatch/backend/internal/middleware"
)

type stubParser struct{}

func (stubParser) ParseSession(_ context.Context, token string) (domain.User, error) {
	if token == "valid" {
		return domain.User{ID: 42}, nil
	}
	return domain.User{}, domain.ErrUnauthorized
}

// echoUser writes "user" when a session user is attached and "anon" otherwise.
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserFromContext(r.Context()); ok {
		_, _ = w.Write([]byte("user"))
		return
	}
	_, _ = w.Write([]byte("anon"))
})

func TestAuthenticator_Required_RejectsMissingToken(t *testing.T) {
	_, required := middleware.NewAuthenticator(stubParser{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	required(echoUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthorized")
}

func TestAuthenticator_Required_RejectsBadToken(t *testing.T) {
	_, required := middleware.NewAuthenticator(stubParser{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()

	required(echoUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticator_Required_AcceptsBearerToken(t *testing.T) {
	_, required := middleware.NewAuthenticator(stubParser{})

	var gotUser domain.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		require.True(t, ok)
		gotUser = user
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()

	required(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), gotUser.ID)
}

func TestAuthenticator_Required_AcceptsCookie(t *testing.T) {
	_, required := middleware.NewAuthenticator(stubParser{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "valid"})
	rec := httptest.NewRecorder()

	required(echoUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticator_Optional_PassesThroughAnonymous(t *testing.T) {
	optional, _ := middleware.NewAuthenticator(stubParser{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	optional(echoUser).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anon", rec.Body.String())
}

func TestAuthenticator_Optional_AttachesUserWhenPresent(t *testing.T) {
	optional, _ := middleware.NewAuthenticator(stubParser{})

	attached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, attached = middleware.UserFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()

	optional(next).ServeHTTP(rec, req)

	assert.True(t, attached)
}
