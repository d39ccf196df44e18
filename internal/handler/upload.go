package handler

import (
	"encoding/base64"
	"net/http"

	"github.com/trailmatch/backend/internal/domain"
)

type uploadPhotoRequest struct {
	FileName    string `json:"file_name" validate:"required"`
	ContentType string `json:"content_type"`
	// Data is the base64-encoded file body.
	Data string `json:"data" validate:"required"`
}

type uploadPhotoResponse struct {
	URL string `json:"url"`
}

// UploadPhoto stores a photo and returns its public URL. The body carries
// the file base64-encoded; the middleware's request size limit bounds it.
func (s *Server) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(r)
	if !ok {
		writeError(w, domain.ErrUnauthorized)
		return
	}
	var req uploadPhotoRequest
	if err := decode(r, &req); err != nil {
		writeRequestError(w, err.Error())
		return
	}
	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeRequestError(w, "data must be base64 encoded")
		return
	}
	url, err := s.uploads.UploadPhoto(r.Context(), user.ID, data, req.FileName, req.ContentType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadPhotoResponse{URL: url})
}
