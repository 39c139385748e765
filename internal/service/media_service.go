package service

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"

	"kirin-dashboard/internal/models"
)

var (
	ErrUploadMissing     = errors.New("no file uploaded")
	ErrUploadTooLarge    = errors.New("file size exceeds maximum allowed size")
	ErrUnsupportedUpload = errors.New("file type not allowed")
)

type MediaService struct {
	api          MediaLibrary
	maxSize      int64
	allowedTypes []string
}

func NewMediaService(api MediaLibrary, maxSize int64) *MediaService {
	return &MediaService{
		api:          api,
		maxSize:      maxSize,
		allowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"},
	}
}

func (s *MediaService) List(ctx context.Context, token string) ([]models.Media, error) {
	return s.api.ListDomainMedia(ctx, token)
}

// Update stores new metadata as typed. Escaping happens where it is rendered.
func (s *MediaService) Update(ctx context.Context, token, id string, update models.MediaUpdate) (models.Media, error) {
	update.Title = strings.TrimSpace(update.Title)
	return s.api.UpdateMedia(ctx, token, id, update)
}

func (s *MediaService) Delete(ctx context.Context, token, id string) error {
	return s.api.DeleteMedia(ctx, token, id)
}

func (s *MediaService) Upload(ctx context.Context, token string, file *multipart.FileHeader) (models.Media, error) {
	if file == nil {
		return models.Media{}, ErrUploadMissing
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return models.Media{}, ErrUploadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !s.isAllowedType(ext) {
		return models.Media{}, ErrUnsupportedUpload
	}

	src, err := file.Open()
	if err != nil {
		return models.Media{}, err
	}
	defer src.Close()

	return s.api.Upload(ctx, token, filepath.Base(file.Filename), src)
}

func (s *MediaService) isAllowedType(ext string) bool {
	for _, allowed := range s.allowedTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}
