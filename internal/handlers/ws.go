package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/vrdaw-dev/vrdaw/internal/logging"
	"github.com/vrdaw-dev/vrdaw/internal/realtime"
	"github.com/vrdaw-dev/vrdaw/internal/services"
	"github.com/vrdaw-dev/vrdaw/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// EventsHandler streams project change events over a websocket to the
// project's owner and collaborators.
type EventsHandler struct {
	hub      *realtime.Hub
	collabs  *services.CollaborationService
	upgrader websocket.Upgrader
	logger   logging.Logger
}

func NewEventsHandler(hub *realtime.Hub, collabs *services.CollaborationService, allowedOrigins []string, logger logging.Logger) *EventsHandler {
	return &EventsHandler{
		hub:     hub,
		collabs: collabs,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// non-browser clients send no Origin
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
		},
	}
}

func (h *EventsHandler) WebSocket(c *gin.Context) {
	projectID, err := utils.GetProjectID(c)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := utils.GetCurrentUserID(c)

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	ok, err := h.collabs.IsParticipant(c.Request.Context(), projectID, userID)

	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a collaborator on this project"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}

	events, unsubscribe := h.hub.Subscribe(projectID)
	log := h.logger.With("project_id", projectID, "user_id", userID)
	ctx := c.Request.Context()

	defer func() {
		unsubscribe()
		conn.Close()
		log.Info(ctx, "websocket connection closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Warn(ctx, "failed to set initial read deadline", "error", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := h.write(conn, realtime.Event{
		Type:      realtime.EventConnected,
		ProjectID: projectID,
		Message:   "WebSocket connection established",
		Timestamp: time.Now().UTC(),
	}); err != nil {
		log.Warn(ctx, "failed to send welcome message", "error", err)
		return
	}

	// The read loop only serves control frames; it ends when the client
	// goes away, which stops the writer below.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
					!errors.Is(err, websocket.ErrCloseSent) {
					log.Warn(ctx, "websocket read error", "error", err)
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := h.write(conn, ev); err != nil {
				log.Warn(ctx, "failed to forward event", "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn(ctx, "ping failed", "error", err)
				return
			}
		}
	}
}

func (h *EventsHandler) write(conn *websocket.Conn, ev realtime.Event) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(ev)
}
