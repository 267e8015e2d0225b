// Package realtime fans project change events out to subscribed clients.
package realtime

import (
	"sync"
	"time"
)

const (
	EventConnected           = "connected"
	EventFileUploaded        = "file_uploaded"
	EventCollaboratorInvited = "collaborator_invited"

	subscriberBuffer = 16
)

type Event struct {
	Type      string    `json:"type"`
	ProjectID uint      `json:"project_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub keeps the set of subscribers per project. Publish never blocks: a
// subscriber that is not keeping up drops events.
type Hub struct {
	mu      sync.RWMutex
	clients map[uint]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uint]map[chan Event]struct{})}
}

// Subscribe registers a subscriber for projectID. The returned cancel func
// unregisters it and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(projectID uint) (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	if h.clients[projectID] == nil {
		h.clients[projectID] = make(map[chan Event]struct{})
	}
	h.clients[projectID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()

			if clients, ok := h.clients[projectID]; ok {
				delete(clients, ch)
				if len(clients) == 0 {
					delete(h.clients, projectID)
				}
			}
			close(ch)
		})
	}
}

func (h *Hub) Publish(projectID uint, eventType, message string) {
	event := Event{
		Type:      eventType,
		ProjectID: projectID,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients[projectID] {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribers returns how many clients are listening on projectID.
func (h *Hub) Subscribers(projectID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[projectID])
}
