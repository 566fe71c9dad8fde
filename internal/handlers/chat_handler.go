package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nabilhq/openwall/backend/internal/chat"
	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/services"
)

// ChatHandler handles conversation history and realtime connections
type ChatHandler struct {
	chatService *chat.Service
	hub         *chat.Hub
	upgrader    websocket.Upgrader
	logger      *logging.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(service *chat.Service, hub *chat.Hub, logger *logging.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: service,
		hub:         hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// RegisterChatRoutes registers conversation history routes
func (h *ChatHandler) RegisterChatRoutes(g *echo.Group) {
	g.GET("/chat/:userId/:otherUserId", h.GetConversation)
}

// RegisterRealtimeRoutes registers the websocket endpoint
func (h *ChatHandler) RegisterRealtimeRoutes(e *echo.Echo) {
	e.GET("/ws", h.Connect)
}

// GetConversation returns the full message history between two users,
// oldest first.
func (h *ChatHandler) GetConversation(c echo.Context) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return fail(c, err)
	}
	otherID, err := paramID(c, "otherUserId")
	if err != nil {
		return fail(c, err)
	}

	messages, err := h.chatService.History(c.Request().Context(), userID, otherID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, echo.Map{"data": messages})
}

// inboundEvent is what clients send over the websocket.
type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Connect upgrades the request to a websocket, registers the session and
// pumps inbound events until the connection drops.
func (h *ChatHandler) Connect(c echo.Context) error {
	userID, err := strconv.ParseUint(c.QueryParam("userId"), 10, 32)
	if err != nil || userID == 0 {
		return fail(c, services.NewValidationError("a valid userId query parameter is required"))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	session := h.hub.Register(uint(userID), conn)
	defer func() {
		h.hub.Unregister(session.ID)
		conn.Close()
	}()

	ctx := c.Request().Context()
	if err := h.chatService.HandleConnect(ctx, session); err != nil {
		h.logger.Warn("sending initial messages failed", map[string]interface{}{
			"user_id": userID, "error": err.Error(),
		})
	}

	for {
		var evt inboundEvent
		if err := conn.ReadJSON(&evt); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read failed", map[string]interface{}{
					"user_id": userID, "error": err.Error(),
				})
			}
			return nil
		}

		switch evt.Event {
		case "message":
			var req models.SendMessageRequest
			if err := json.Unmarshal(evt.Data, &req); err != nil {
				h.sendError(session, services.NewValidationError("invalid message payload"))
				continue
			}
			if req.SenderID == 0 {
				req.SenderID = uint(userID)
			}
			if _, err := h.chatService.Send(ctx, req); err != nil {
				h.sendError(session, err)
			}
		default:
			h.sendError(session, services.NewValidationError("unknown event"))
		}
	}
}

func (h *ChatHandler) sendError(session *chat.Session, err error) {
	kind := services.KindOf(err)
	if sendErr := session.Send("error", echo.Map{"EC": kind.EC(), "EM": err.Error()}); sendErr != nil {
		h.logger.Warn("writing error event failed", map[string]interface{}{
			"user_id": session.UserID, "error": sendErr.Error(),
		})
	}
}
