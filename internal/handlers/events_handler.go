package handlers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"kirin-dashboard/internal/editor"
	"kirin-dashboard/pkg/logger"
)

const (
	eventsWriteWait  = 10 * time.Second
	eventsPongWait   = 60 * time.Second
	eventsPingPeriod = eventsPongWait * 9 / 10
)

type eventMessage struct {
	Event editor.Event  `json:"event"`
	State stateResponse `json:"state"`
}

// EventsHandler streams store changes of the caller's session over a
// websocket. Every message carries the full views, so a client that falls
// behind only misses intermediate states. The socket is closed when the
// session ends.
type EventsHandler struct {
	upgrader websocket.Upgrader
}

func NewEventsHandler(allowedOrigins []string) *EventsHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[strings.TrimRight(origin, "/")] = struct{}{}
	}

	return &EventsHandler{upgrader: websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if _, ok := allowed[origin]; ok {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}}
}

// GET /api/editor/events
func (h *EventsHandler) Stream(c *gin.Context) {
	s, ok := requireSession(c)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromContext(c.Request.Context()).WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	// Holds at most the latest undelivered event.
	pending := make(chan editor.Event, 1)
	unsubscribe := s.Store.Subscribe(func(event editor.Event) {
		select {
		case pending <- event:
		default:
			select {
			case <-pending:
			default:
			}
			select {
			case pending <- event:
			default:
			}
		}
	})
	defer unsubscribe()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(eventsPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(event editor.Event) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
		return conn.WriteJSON(eventMessage{Event: event, State: newStateResponse(s.Store.Snapshot(), true)}) == nil
	}

	if !send(editor.Event{Kind: "snapshot", PageID: s.Store.PageID(), SectionID: s.Store.SelectedID()}) {
		return
	}

	ticker := time.NewTicker(eventsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-s.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "session ended"))
			return
		case event := <-pending:
			if !send(event) {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(eventsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
