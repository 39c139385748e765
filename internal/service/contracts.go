package service

import (
	"context"
	"io"

	"kirin-dashboard/internal/models"
)

// CMSAuth is the part of the CMS API that handles credentials. The REST
// client and the demo backend both satisfy it.
type CMSAuth interface {
	Login(ctx context.Context, email, password string) (string, error)
	Me(ctx context.Context, token string) (models.User, error)
	Logout(ctx context.Context, token string) error
}

// MediaLibrary is the media CRUD surface of the CMS API.
type MediaLibrary interface {
	ListDomainMedia(ctx context.Context, token string) ([]models.Media, error)
	UpdateMedia(ctx context.Context, token, id string, update models.MediaUpdate) (models.Media, error)
	DeleteMedia(ctx context.Context, token, id string) error
	Upload(ctx context.Context, token, filename string, file io.Reader) (models.Media, error)
}
