package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestEventsStreamClosesOnLogout(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router)

	srv := httptest.NewServer(router)
	defer srv.Close()

	header := http.Header{}
	header.Set("Cookie", cookie.Name+"="+cookie.Value)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/editor/events", header)
	if err != nil {
		t.Fatalf("failed to open event stream: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var first eventMessage
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("expected initial snapshot, got %v", err)
	}
	if first.Event.Kind != "snapshot" {
		t.Fatalf("expected snapshot event, got %q", first.Event.Kind)
	}

	if w := perform(router, http.MethodPost, "/api/auth/logout", "", cookie); w.Code != http.StatusOK {
		t.Fatalf("expected logout to succeed, got %d", w.Code)
	}

	for {
		if _, _, err = conn.ReadMessage(); err != nil {
			break
		}
	}
	if !websocket.IsCloseError(err, websocket.ClosePolicyViolation) {
		t.Fatalf("expected policy close after logout, got %v", err)
	}
}
