// Package storage holds the object-store client used for photo uploads.
// The store is any HTTP service that accepts a PUT per key and serves the
// object back from a public base URL.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPStore uploads objects with a single authenticated PUT per key.
type HTTPStore struct {
	endpoint string // upload endpoint, no trailing slash
	apiKey   string
	baseURL  string // public URL prefix objects are served from
	client   *http.Client
}

// NewHTTPStore constructs an HTTPStore. endpoint receives the uploads;
// baseURL is where the uploaded objects become publicly readable.
func NewHTTPStore(endpoint, apiKey, baseURL string) *HTTPStore {
	return &HTTPStore{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Put stores data under key and returns the object's public URL.
func (s *HTTPStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.endpoint+"/"+key, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("storage.HTTPStore.Put: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("storage.HTTPStore.Put: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("storage.HTTPStore.Put: upload failed with status %d: %s", resp.StatusCode, body)
	}

	return s.baseURL + "/" + key, nil
}
