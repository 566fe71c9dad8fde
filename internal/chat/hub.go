package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/nabilhq/openwall/backend/internal/logging"
)

// Broadcast scopes.
const (
	// ScopeGlobal sends every message event to every connected session,
	// matching the system's observed behavior.
	ScopeGlobal = "global"
	// ScopeParticipants restricts message events to the sender's and
	// receivers' sessions.
	ScopeParticipants = "participants"
)

// Conn is the write side of a realtime connection.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Event is the envelope pushed to connected sessions.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Session is one live connection bound to a user.
type Session struct {
	ID     uuid.UUID
	UserID uint

	conn Conn
	mu   sync.Mutex
}

// Send writes one event to the session. Writes are serialized per session.
func (s *Session) Send(event string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(Event{Event: event, Data: data})
}

// Hub is the process-local registry of live sessions. It is rebuilt from
// scratch as connections come and go; nothing here is persisted.
type Hub struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	scope    string
	logger   *logging.Logger
}

// NewHub creates a Hub with the given broadcast scope.
func NewHub(scope string, logger *logging.Logger) *Hub {
	if scope != ScopeParticipants {
		scope = ScopeGlobal
	}
	return &Hub{
		sessions: make(map[uuid.UUID]*Session),
		scope:    scope,
		logger:   logger,
	}
}

// Register adds a connection for a user and returns its session.
func (h *Hub) Register(userID uint, conn Conn) *Session {
	session := &Session{ID: uuid.New(), UserID: userID, conn: conn}
	h.mu.Lock()
	h.sessions[session.ID] = session
	count := len(h.sessions)
	h.mu.Unlock()
	h.logger.Info("session connected", map[string]interface{}{
		"user_id": userID, "sessions": count,
	})
	return session
}

// Unregister removes a session from the registry.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	session, ok := h.sessions[id]
	delete(h.sessions, id)
	h.mu.Unlock()
	if ok {
		h.logger.Info("session disconnected", map[string]interface{}{"user_id": session.UserID})
	}
}

// Broadcast pushes one event to sessions selected by the hub's scope:
// every session under ScopeGlobal, only the participants' sessions otherwise.
// Delivery is best effort; failed writes are logged and skipped.
func (h *Hub) Broadcast(event string, data interface{}, participants ...uint) {
	h.mu.Lock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if h.scope == ScopeGlobal || containsUser(participants, s.UserID) {
			targets = append(targets, s)
		}
	}
	h.mu.Unlock()

	for _, s := range targets {
		if err := s.Send(event, data); err != nil {
			h.logger.Warn("dropping broadcast write", map[string]interface{}{
				"user_id": s.UserID, "error": err.Error(),
			})
		}
	}
}

func containsUser(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
