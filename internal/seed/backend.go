package seed

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"kirin-dashboard/internal/client"
	"kirin-dashboard/internal/editor"
	"kirin-dashboard/internal/models"
)

const maxDemoUpload = 10 << 20

// Backend answers the CMS API calls from a Dataset held in memory. It
// accepts any credentials and is meant for demos and local development.
type Backend struct {
	mu     sync.RWMutex
	data   *Dataset
	nextID int
}

func NewBackend(data *Dataset) *Backend {
	if data.Media == nil {
		data.Media = make(map[string][]models.Media)
	}
	if data.Sections == nil {
		data.Sections = make(map[string][]models.Section)
	}

	b := &Backend{data: data, nextID: 1000}
	for _, media := range data.Media {
		for _, m := range media {
			if id, err := strconv.Atoi(string(m.ID)); err == nil && id >= b.nextID {
				b.nextID = id + 1
			}
		}
	}
	return b
}

// Source ignores the token: every demo session sees the same content.
func (b *Backend) Source(string) editor.Source {
	return b
}

func (b *Backend) ListPages(context.Context) ([]models.Page, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Page{}, b.data.Pages...), nil
}

func (b *Backend) ListSections(_ context.Context, pageID string) ([]models.Section, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sections := b.data.Sections[pageID]
	out := make([]models.Section, len(sections))
	for i, section := range sections {
		out[i] = section.Clone()
	}
	return out, nil
}

func (b *Backend) ListSectionMedia(_ context.Context, sectionID string) ([]models.Media, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.Media{}, b.data.Media[sectionID]...), nil
}

func (b *Backend) Login(_ context.Context, email, _ string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", &client.APIError{Method: http.MethodPost, Path: "/api/auth", StatusCode: http.StatusUnauthorized, Message: "email is required"}
	}
	return "demo-" + uuid.NewString(), nil
}

func (b *Backend) Me(context.Context, string) (models.User, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.data.User, nil
}

func (b *Backend) Logout(context.Context, string) error {
	return nil
}

func (b *Backend) ListDomainMedia(context.Context, string) ([]models.Media, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var all []models.Media
	for _, media := range b.data.Media {
		all = append(all, media...)
	}
	return all, nil
}

func (b *Backend) UpdateMedia(_ context.Context, _ string, id string, update models.MediaUpdate) (models.Media, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sectionID, media := range b.data.Media {
		for i := range media {
			if string(media[i].ID) == id {
				media[i].Title = update.Title
				media[i].Text = update.Text
				b.data.Media[sectionID] = media
				return media[i], nil
			}
		}
	}
	return models.Media{}, notFound(http.MethodPut, id)
}

func (b *Backend) DeleteMedia(_ context.Context, _ string, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sectionID, media := range b.data.Media {
		for i := range media {
			if string(media[i].ID) == id {
				b.data.Media[sectionID] = append(media[:i:i], media[i+1:]...)
				return nil
			}
		}
	}
	return notFound(http.MethodDelete, id)
}

// Upload records an image entry without keeping the bytes. Uploaded media
// belongs to no section and only shows up in the domain listing.
func (b *Backend) Upload(_ context.Context, _ string, filename string, file io.Reader) (models.Media, error) {
	if _, err := io.Copy(io.Discard, io.LimitReader(file, maxDemoUpload)); err != nil {
		return models.Media{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	media := models.Media{
		ID:      models.ID(strconv.Itoa(b.nextID)),
		Title:   filename,
		FileURL: "/uploads/" + filename,
		Type:    models.MediaTypeImage,
	}
	b.nextID++
	b.data.Media[""] = append(b.data.Media[""], media)
	return media, nil
}

func notFound(method, id string) error {
	return &client.APIError{Method: method, Path: "/api/media/" + id, StatusCode: http.StatusNotFound, Message: "Media not found"}
}
