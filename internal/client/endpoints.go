package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"time"

	"kirin-dashboard/internal/models"
	"kirin-dashboard/pkg/cache"
	"kirin-dashboard/pkg/logger"
)

// Login forwards the credentials and returns the back-end access token,
// read from the JSON body or from the access_token cookie.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/auth", "", bytes.NewReader(encoded))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var body struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.AccessToken != "" {
		return body.AccessToken, nil
	}

	for _, cookie := range resp.Cookies() {
		if cookie.Name == TokenCookie && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", ErrNoToken
}

func (c *Client) Me(ctx context.Context, token string) (models.User, error) {
	var user models.User
	err := c.doJSON(ctx, http.MethodGet, "/api/me", token, nil, &user)
	return user, err
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/logout", token, nil, nil)
}

func (c *Client) ListPages(ctx context.Context, token string) ([]models.Page, error) {
	pages := []models.Page{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/pages", token, nil, &pages); err != nil {
		return nil, err
	}
	return pages, nil
}

// ListSections returns the sections of a page ordered by their stored
// position. Records without a position keep the order they arrived in.
func (c *Client) ListSections(ctx context.Context, token, pageID string) ([]models.Section, error) {
	var raw []json.RawMessage
	if err := c.doJSON(ctx, http.MethodGet, "/api/sections/"+escape(pageID), token, nil, &raw); err != nil {
		return nil, err
	}

	type positioned struct {
		section  models.Section
		position int
	}
	items := make([]positioned, 0, len(raw))
	for i, record := range raw {
		var section models.Section
		if err := json.Unmarshal(record, &section); err != nil {
			return nil, fmt.Errorf("cms: decode section %d of page %s: %w", i, pageID, err)
		}
		var meta struct {
			Position *int `json:"position"`
		}
		_ = json.Unmarshal(record, &meta)
		position := i
		if meta.Position != nil {
			position = *meta.Position
		}
		items = append(items, positioned{section: section, position: position})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].position < items[j].position })

	sections := make([]models.Section, 0, len(items))
	for _, item := range items {
		sections = append(sections, item.section)
	}
	return sections, nil
}

func (c *Client) ListSectionMedia(ctx context.Context, token, sectionID string) ([]models.Media, error) {
	media := []models.Media{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/media/"+escape(sectionID), token, nil, &media); err != nil {
		return nil, err
	}
	return media, nil
}

func (c *Client) ListDomainMedia(ctx context.Context, token string) ([]models.Media, error) {
	media := []models.Media{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/media/domain", token, nil, &media); err != nil {
		return nil, err
	}
	return media, nil
}

func (c *Client) UpdateMedia(ctx context.Context, token, id string, update models.MediaUpdate) (models.Media, error) {
	var media models.Media
	err := c.doJSON(ctx, http.MethodPut, "/api/media/"+escape(id), token, update, &media)
	return media, err
}

func (c *Client) DeleteMedia(ctx context.Context, token, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/media/"+escape(id), token, nil, nil)
}

// Upload streams file to the media API as multipart field "file".
func (c *Client) Upload(ctx context.Context, token, filename string, file io.Reader) (models.Media, error) {
	body, writer := io.Pipe()
	form := multipart.NewWriter(writer)

	go func() {
		part, err := form.CreateFormFile("file", filename)
		if err == nil {
			_, err = io.Copy(part, file)
		}
		if err == nil {
			err = form.Close()
		}
		writer.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/api/upload", token, body)
	if err != nil {
		body.Close()
		return models.Media{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		body.Close()
		return models.Media{}, err
	}
	defer resp.Body.Close()

	var media models.Media
	if err := json.NewDecoder(resp.Body).Decode(&media); err != nil {
		return models.Media{}, fmt.Errorf("cms: decode upload response: %w", err)
	}
	return media, nil
}

// Source binds a token to the client so it can feed an editor loader.
// Page lists are served from the cache when one is attached.
type Source struct {
	client *Client
	token  string
	cache  *cache.Cache
	ttl    time.Duration
}

func (c *Client) Source(token string) *Source {
	return &Source{client: c, token: token}
}

// WithCache returns a copy of s that caches page lists for ttl.
func (s *Source) WithCache(store *cache.Cache, ttl time.Duration) *Source {
	cp := *s
	cp.cache = store
	cp.ttl = ttl
	return &cp
}

func (s *Source) ListPages(ctx context.Context) ([]models.Page, error) {
	var pages []models.Page
	if s.cache.Enabled() {
		if err := s.cache.GetCachedPages(s.token, &pages); err == nil {
			return pages, nil
		}
	}

	pages, err := s.client.ListPages(ctx, s.token)
	if err != nil {
		return nil, err
	}
	if s.cache.Enabled() {
		if err := s.cache.CachePages(s.token, pages, s.ttl); err != nil {
			logger.FromContext(ctx).WithError(err).Warn("Failed to cache page list")
		}
	}
	return pages, nil
}

func (s *Source) ListSections(ctx context.Context, pageID string) ([]models.Section, error) {
	return s.client.ListSections(ctx, s.token, pageID)
}

func (s *Source) ListSectionMedia(ctx context.Context, sectionID string) ([]models.Media, error) {
	return s.client.ListSectionMedia(ctx, s.token, sectionID)
}
