package storage_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailmatch/backend/internal/storage"
)

func TestHTTPStore_Put(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	store := storage.NewHTTPStore(srv.URL, "secret-key", "https://cdn.example.com")

	url, err := store.Put(context.Background(), "photos/42/abc.jpg", []byte("jpeg-bytes"), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/photos/42/abc.jpg", url)
	assert.Equal(t, "/photos/42/abc.jpg", gotPath)
	assert.Equal(t, "Bearer secret-key", gotAuth)
	assert.Equal(t, "image/jpeg", gotContentType)
	assert.Equal(t, []byte("jpeg-bytes"), gotBody)
}

func TestHTTPStore_Put_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := storage.NewHTTPStore(srv.URL, "secret-key", "https://cdn.example.com")

	_, err := store.Put(context.Background(), "photos/42/abc.jpg", []byte("x"), "image/jpeg")

	assert.Error(t, err)
}
