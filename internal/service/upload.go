package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/trailmatch/backend/internal/domain"
)

// maxPhotoBytes caps a single uploaded photo at 10 MiB.
const maxPhotoBytes = 10 << 20

// ObjectStorage is the slice of the file store the upload service needs:
// put bytes under a key, get a public URL back.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
}

// UploadService stores user photos and hands back their public URLs.
type UploadService struct {
	storage ObjectStorage
}

// NewUploadService constructs an UploadService backed by the provided storage.
func NewUploadService(storage ObjectStorage) *UploadService {
	return &UploadService{storage: storage}
}

// UploadPhoto stores one photo under photos/{userID}/{uuid}.{ext} and
// returns its public URL. The extension comes from the client file name,
// defaulting to jpg.
func (s *UploadService) UploadPhoto(ctx context.Context, userID int64, data []byte, fileName, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("service.UploadService.UploadPhoto: %w: empty file", domain.ErrValidation)
	}
	if len(data) > maxPhotoBytes {
		return "", fmt.Errorf("service.UploadService.UploadPhoto: %w: file exceeds %d bytes", domain.ErrValidation, maxPhotoBytes)
	}

	ext := "jpg"
	if i := strings.LastIndex(fileName, "."); i >= 0 && i < len(fileName)-1 {
		ext = strings.ToLower(fileName[i+1:])
	}

	key := fmt.Sprintf("photos/%d/%s.%s", userID, uuid.NewString(), ext)

	url, err := s.storage.Put(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("service.UploadService.UploadPhoto: %w", err)
	}
	return url, nil
}
