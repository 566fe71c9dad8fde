package chat

import (
	"context"

	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/models"
	"github.com/nabilhq/openwall/backend/internal/repositories"
	"github.com/nabilhq/openwall/backend/internal/services"
)

// Service is the messaging relay: history hydration, validated persistence,
// and broadcast of created messages.
type Service struct {
	messages repositories.MessageRepository
	hub      *Hub
	logger   *logging.Logger
}

// NewService creates a new chat Service
func NewService(messages repositories.MessageRepository, hub *Hub, logger *logging.Logger) *Service {
	return &Service{messages: messages, hub: hub, logger: logger}
}

// History returns all messages between two users, oldest first.
func (s *Service) History(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	messages, err := s.messages.GetConversation(ctx, userID, otherID)
	if err != nil {
		return nil, services.NewInternalError("fetching conversation", err)
	}
	if messages == nil {
		messages = []models.Message{}
	}
	return messages, nil
}

// InitialMessages builds the connect-time snapshot: every message involving
// the user, partitioned by the other participant, each partition oldest first.
func (s *Service) InitialMessages(ctx context.Context, userID uint) (map[uint][]models.Message, error) {
	messages, err := s.messages.GetUserMessages(ctx, userID)
	if err != nil {
		return nil, services.NewInternalError("fetching messages", err)
	}

	partitions := make(map[uint][]models.Message)
	for _, m := range messages {
		other := m.ReceiverID
		if m.ReceiverID == userID {
			other = m.SenderID
		}
		partitions[other] = append(partitions[other], m)
	}
	return partitions, nil
}

// Send validates and persists an inbound message event, then broadcasts each
// created message. A multi-recipient share persists one message per receiver,
// all or none, and all share the same payload.
func (s *Service) Send(ctx context.Context, req models.SendMessageRequest) ([]models.Message, error) {
	if req.Content == "" {
		return nil, services.NewValidationError("message content is required")
	}
	if req.SenderID == 0 {
		return nil, services.NewValidationError("senderId is required")
	}
	if req.ReceiverID == 0 && len(req.ReceiverIDs) == 0 {
		return nil, services.NewValidationError("a receiver is required")
	}
	if req.ReceiverID != 0 && len(req.ReceiverIDs) > 0 {
		return nil, services.NewValidationError("provide either receiverId or receiverIds, not both")
	}

	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeDefault
	}

	receivers := req.ReceiverIDs
	if req.ReceiverID != 0 {
		receivers = []uint{req.ReceiverID}
	}

	created := make([]*models.Message, len(receivers))
	for i, receiverID := range receivers {
		created[i] = &models.Message{
			SenderID:     req.SenderID,
			ReceiverID:   receiverID,
			Content:      req.Content,
			ImageURL:     req.ImageURL,
			SharedPostID: req.SharedPostID,
			Type:         msgType,
		}
	}

	if len(created) == 1 {
		if err := s.messages.InsertMessage(ctx, created[0]); err != nil {
			return nil, services.NewInternalError("persisting message", err)
		}
	} else {
		if err := s.messages.InsertMessages(ctx, created); err != nil {
			return nil, services.NewInternalError("persisting message batch", err)
		}
	}

	out := make([]models.Message, len(created))
	for i, m := range created {
		out[i] = *m
		s.hub.Broadcast("message", *m, m.SenderID, m.ReceiverID)
	}

	s.logger.Debug("messages relayed", map[string]interface{}{
		"sender_id": req.SenderID, "count": len(out),
	})
	return out, nil
}

// HandleConnect delivers the initial snapshot to a freshly registered session.
func (s *Service) HandleConnect(ctx context.Context, session *Session) error {
	snapshot, err := s.InitialMessages(ctx, session.UserID)
	if err != nil {
		return err
	}
	return session.Send("initialMessages", snapshot)
}
