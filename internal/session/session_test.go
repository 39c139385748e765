package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"kirin-dashboard/internal/editor"
	"kirin-dashboard/internal/models"
)

type emptySource struct{}

func (emptySource) ListPages(context.Context) ([]models.Page, error) { return nil, nil }
func (emptySource) ListSections(context.Context, string) ([]models.Section, error) {
	return nil, nil
}
func (emptySource) ListSectionMedia(context.Context, string) ([]models.Media, error) {
	return nil, nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestManager(ttl time.Duration) (*Manager, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	m := NewManager(Options{
		TTL:    ttl,
		Source: func(string) editor.Source { return emptySource{} },
		Now:    clock.Now,
	})
	return m, clock
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	signed, expires, err := tokens.Issue("session-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if time.Until(expires) <= 0 {
		t.Fatalf("expected expiry in the future, got %v", expires)
	}

	id, err := tokens.Parse(signed)
	if err != nil || id != "session-1" {
		t.Fatalf("expected session-1, got %q %v", id, err)
	}
}

func TestTokensRejectForeignSecret(t *testing.T) {
	signed, _, _ := NewTokens("secret", time.Hour).Issue("session-1")
	if _, err := NewTokens("other", time.Hour).Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokensRejectExpired(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	issued := time.Now()
	tokens.now = func() time.Time { return issued }
	signed, _, _ := tokens.Issue("session-1")

	tokens.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := tokens.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestManagerCreateAndGet(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	defer m.Close()

	s := m.Create("backend-token", models.User{ID: "1", Name: "Ann"})
	if s.Store == nil || s.Loader == nil || s.Autoplay == nil {
		t.Fatalf("expected editor state to be wired")
	}

	got, ok := m.Get(s.ID)
	if !ok || got != s || got.Token != "backend-token" {
		t.Fatalf("expected to find session")
	}
	if _, ok := m.Get("missing"); ok {
		t.Fatalf("expected unknown id to miss")
	}
}

func TestManagerReapsIdleSessions(t *testing.T) {
	m, clock := newTestManager(time.Minute)
	defer m.Close()

	idle := m.Create("a", models.User{ID: "1"})
	clock.Advance(45 * time.Second)
	active := m.Create("b", models.User{ID: "2"})
	clock.Advance(30 * time.Second)

	if _, ok := m.Get(idle.ID); ok {
		t.Fatalf("expected idle session to be treated as expired")
	}
	if _, ok := m.Get(active.ID); !ok {
		t.Fatalf("expected active session to be available")
	}

	if removed := m.Reap(clock.Now()); removed != 1 {
		t.Fatalf("expected one reaped session, got %d", removed)
	}
	if m.Len() != 1 {
		t.Fatalf("expected one remaining session, got %d", m.Len())
	}

	// The store of a reaped session ignores further edits.
	if idle.Store.SelectPage("p1") {
		t.Fatalf("expected closed store to ignore mutations")
	}
}

func TestManagerDelete(t *testing.T) {
	m, _ := newTestManager(0)
	s := m.Create("a", models.User{ID: "1"})

	if !m.Delete(s.ID) {
		t.Fatalf("expected delete to succeed")
	}
	if m.Delete(s.ID) {
		t.Fatalf("expected second delete to report false")
	}
	if _, ok := m.Get(s.ID); ok {
		t.Fatalf("expected session to be gone")
	}
}

func TestSessionDoneClosedWhenSessionEnds(t *testing.T) {
	m, clock := newTestManager(time.Minute)

	deleted := m.Create("a", models.User{ID: "1"})
	reaped := m.Create("b", models.User{ID: "2"})
	open := m.Create("c", models.User{ID: "3"})

	select {
	case <-deleted.Done():
		t.Fatalf("expected live session to stay open")
	default:
	}

	m.Delete(deleted.ID)
	clock.Advance(2 * time.Minute)
	open.touch(clock.Now())
	m.Reap(clock.Now())

	for name, s := range map[string]*Session{"deleted": deleted, "reaped": reaped} {
		select {
		case <-s.Done():
		default:
			t.Fatalf("expected %s session to be done", name)
		}
	}
	select {
	case <-open.Done():
		t.Fatalf("expected touched session to stay open")
	default:
	}

	// Shutdown closes the rest; closing twice is harmless.
	m.Close()
	m.Close()
	select {
	case <-open.Done():
	default:
		t.Fatalf("expected shutdown to end remaining sessions")
	}
}
