package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"kirin-dashboard/internal/middleware"
	"kirin-dashboard/internal/sections"
	"kirin-dashboard/internal/seed"
	"kirin-dashboard/internal/service"
	"kirin-dashboard/internal/session"
	"kirin-dashboard/pkg/cache"
	"kirin-dashboard/pkg/validator"
)

const testCookie = "kirin_test"

func init() {
	gin.SetMode(gin.TestMode)
	validator.Init()
}

type stateBody struct {
	Changed bool `json:"changed"`
	List    struct {
		Pages  []struct{ ID string } `json:"pages"`
		PageID string                `json:"pageId"`
		Items  []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
			Type  string `json:"type"`
		} `json:"items"`
	} `json:"list"`
	Editor *struct {
		SectionID   string            `json:"sectionId"`
		Type        string            `json:"type"`
		MediaFields map[string]string `json:"mediaFields"`
	} `json:"editor"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	data, err := seed.Demo()
	if err != nil {
		t.Fatalf("failed to load demo data: %v", err)
	}
	backend := seed.NewBackend(data)

	sessions := session.NewManager(session.Options{TTL: time.Hour, Source: backend.Source})
	t.Cleanup(sessions.Close)
	tokens := session.NewTokens("test-secret", time.Hour)
	disabled, _ := cache.NewCache("", false)

	authHandler := NewAuthHandler(
		service.NewAuthService(backend, sessions, tokens, disabled, time.Minute),
		tokens, sessions, CookieConfig{Name: testCookie, TTL: time.Hour},
	)
	editorHandler := NewEditorHandler()
	sectionHandler := NewSectionHandler(sections.DefaultRegistry(), sections.NewHTMLContext())
	draftHandler := NewDraftHandler(service.NewDraftService(nil))

	router := gin.New()
	router.POST("/api/auth/login", authHandler.Login)
	router.POST("/api/auth/logout", authHandler.Logout)

	ed := router.Group("/api/editor", middleware.SessionMiddleware(testCookie, tokens, sessions))
	ed.GET("/state", editorHandler.State)
	ed.POST("/pages/:pageId/select", editorHandler.SelectPage())
	ed.POST("/sections/:sectionId/select", editorHandler.SelectSection())
	ed.PUT("/section/type", editorHandler.ChangeType())
	ed.PUT("/section/title", editorHandler.UpdateTitle())
	ed.PATCH("/section/content", editorHandler.UpdateContent())
	ed.POST("/carousel/slides", editorHandler.AddSlide)
	ed.POST("/gallery/images", editorHandler.AddImage)
	ed.GET("/preview", sectionHandler.Preview)
	ed.POST("/seo", sectionHandler.SEO)
	ed.POST("/drafts", draftHandler.Save)
	ed.GET("/events", NewEventsHandler(nil).Stream)

	return router
}

func login(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	w := perform(router, http.MethodPost, "/api/auth/login", `{"email":"Demo@Kirin.local","password":"secret"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected login to succeed, got %d: %s", w.Code, w.Body.String())
	}
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookie {
			return cookie
		}
	}
	t.Fatalf("expected session cookie to be set")
	return nil
}

func perform(router *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeState(t *testing.T, w *httptest.ResponseRecorder) stateBody {
	t.Helper()
	var body stateBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode state: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestEditorRequiresSession(t *testing.T) {
	router := newTestRouter(t)

	w := perform(router, http.MethodGet, "/api/editor/state", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	forged := &http.Cookie{Name: testCookie, Value: "not-a-token"}
	if w := perform(router, http.MethodGet, "/api/editor/state", "", forged); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for forged cookie, got %d", w.Code)
	}
}

func TestLoginLoadsPages(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	w := perform(router, http.MethodGet, "/api/editor/state", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	state := decodeState(t, w)
	if len(state.List.Pages) != 5 {
		t.Fatalf("expected five demo pages, got %d", len(state.List.Pages))
	}
	if state.Editor != nil {
		t.Fatalf("expected no editor view before a selection")
	}
}

func TestLoginRejectsMissingPassword(t *testing.T) {
	router := newTestRouter(t)
	w := perform(router, http.MethodPost, "/api/auth/login", `{"email":"demo@kirin.local"}`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestSelectPageAndSection(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	state := decodeState(t, perform(router, http.MethodPost, "/api/editor/pages/1/select", "", cookie))
	if !state.Changed || state.List.PageID != "1" {
		t.Fatalf("expected page 1 to be selected, got %+v", state.List)
	}
	if len(state.List.Items) != 4 || state.List.Items[0].ID != "s1" {
		t.Fatalf("unexpected sections for page 1: %+v", state.List.Items)
	}

	state = decodeState(t, perform(router, http.MethodPost, "/api/editor/sections/s1/select", "", cookie))
	if state.Editor == nil || state.Editor.SectionID != "s1" || state.Editor.Type != "HERO" {
		t.Fatalf("expected hero editor for s1, got %+v", state.Editor)
	}
	if _, ok := state.Editor.MediaFields["headline"]; !ok {
		t.Fatalf("expected media-backed headline field, got %v", state.Editor.MediaFields)
	}

	state = decodeState(t, perform(router, http.MethodPost, "/api/editor/sections/missing/select", "", cookie))
	if state.Changed || state.Editor == nil || state.Editor.SectionID != "s1" {
		t.Fatalf("expected unknown section to leave the selection alone")
	}
}

func TestUpdateContentValidation(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)
	perform(router, http.MethodPost, "/api/editor/pages/1/select", "", cookie)
	perform(router, http.MethodPost, "/api/editor/sections/s3/select", "", cookie)

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "out of range", body: `{"field":"columns","value":9}`, status: http.StatusUnprocessableEntity},
		{name: "unknown field", body: `{"field":"bogus","value":1}`, status: http.StatusBadRequest},
		{name: "missing field", body: `{"value":1}`, status: http.StatusBadRequest},
		{name: "valid", body: `{"field":"columns","value":2}`, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodPatch, "/api/editor/section/content", tt.body, cookie)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestChangeTypeRejectsUnknownType(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)
	perform(router, http.MethodPost, "/api/editor/pages/1/select", "", cookie)
	perform(router, http.MethodPost, "/api/editor/sections/s2/select", "", cookie)

	if w := perform(router, http.MethodPut, "/api/editor/section/type", `{"type":"VIDEO"}`, cookie); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	state := decodeState(t, perform(router, http.MethodPut, "/api/editor/section/type", `{"type":"CAROUSEL"}`, cookie))
	if !state.Changed || state.Editor.Type != "CAROUSEL" {
		t.Fatalf("expected section to become a carousel, got %+v", state.Editor)
	}

	if w := perform(router, http.MethodPost, "/api/editor/carousel/slides", "", cookie); w.Code != http.StatusCreated {
		t.Fatalf("expected slide to be added, got %d", w.Code)
	}
}

func TestPreviewRendersSelection(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	w := perform(router, http.MethodGet, "/api/editor/preview", "", cookie)
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Fatalf("expected empty preview without a selection, got %d %q", w.Code, w.Body.String())
	}

	perform(router, http.MethodPost, "/api/editor/pages/1/select", "", cookie)
	perform(router, http.MethodPost, "/api/editor/sections/s2/select", "", cookie)

	w = perform(router, http.MethodGet, "/api/editor/preview", "", cookie)
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Fatalf("expected html, got %q", w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "About Our Company") {
		t.Fatalf("expected text section title in preview, got %s", w.Body.String())
	}

	page := perform(router, http.MethodGet, "/api/editor/preview?scope=page", "", cookie).Body.String()
	if !strings.Contains(page, "About Our Company") || len(page) <= w.Body.Len() {
		t.Fatalf("expected page preview to include every section")
	}
}

func TestSEOHints(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	w := perform(router, http.MethodPost, "/api/editor/seo", `{"metaTitle":"`+strings.Repeat("a", 61)+`","metaDescription":"short"}`, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var hints struct {
		MetaTitleLength int      `json:"metaTitleLength"`
		Warnings        []string `json:"warnings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &hints); err != nil {
		t.Fatalf("failed to decode hints: %v", err)
	}
	if hints.MetaTitleLength != 61 || len(hints.Warnings) == 0 {
		t.Fatalf("expected an over-length warning, got %+v", hints)
	}
}

func TestDraftsDisabled(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	if w := perform(router, http.MethodPost, "/api/editor/drafts", "", cookie); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when drafts are disabled, got %d", w.Code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	w := perform(router, http.MethodPost, "/api/auth/logout", "", cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected logout to clear the cookie")
	}

	if w := perform(router, http.MethodGet, "/api/editor/state", "", cookie); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}

	if w := perform(router, http.MethodPost, "/api/auth/logout", "", nil); w.Code != http.StatusOK {
		t.Fatalf("expected anonymous logout to succeed, got %d", w.Code)
	}
}

func TestUserTextIsStoredAsTyped(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)
	perform(router, http.MethodPost, "/api/editor/pages/1/select", "", cookie)
	perform(router, http.MethodPost, "/api/editor/sections/s3/select", "", cookie)

	state := decodeState(t, perform(router, http.MethodPut, "/api/editor/section/title", `{"title":"Tom & Jerry <3"}`, cookie))
	if !state.Changed {
		t.Fatalf("expected title update to apply")
	}
	var title string
	for _, item := range state.List.Items {
		if item.ID == "s3" {
			title = item.Title
		}
	}
	if title != "Tom & Jerry <3" {
		t.Fatalf("expected title to be kept verbatim, got %q", title)
	}

	w := perform(router, http.MethodPost, "/api/editor/gallery/images", `{"imageUrl":"/cats.png","caption":"Cats & Dogs"}`, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected image to be added, got %d: %s", w.Code, w.Body.String())
	}
	var added struct {
		Image struct {
			Caption string `json:"caption"`
		} `json:"image"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &added); err != nil {
		t.Fatalf("failed to decode image: %v", err)
	}
	if added.Image.Caption != "Cats & Dogs" {
		t.Fatalf("expected caption to be kept verbatim, got %q", added.Image.Caption)
	}

	preview := perform(router, http.MethodGet, "/api/editor/preview", "", cookie).Body.String()
	if !strings.Contains(preview, "Cats &amp; Dogs") || strings.Contains(preview, "&amp;amp;") {
		t.Fatalf("expected the caption to be escaped exactly once, got %s", preview)
	}
}
