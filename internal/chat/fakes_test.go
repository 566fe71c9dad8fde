package chat

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nabilhq/openwall/backend/internal/logging"
	"github.com/nabilhq/openwall/backend/internal/models"
)

// fakeConn records everything written to it.
type fakeConn struct {
	mu     sync.Mutex
	events []Event
	closed bool
	// writeErr, when set, fails every write.
	writeErr error
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.events = append(c.events, v.(Event))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) recorded() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

// fakeMessageRepo is an in-memory message store preserving insertion order.
type fakeMessageRepo struct {
	messages []models.Message
	// batchErr, when set, fails InsertMessages without writing anything.
	batchErr  error
	insertErr error
}

func (r *fakeMessageRepo) InsertMessage(ctx context.Context, msg *models.Message) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	msg.ID = primitive.NewObjectID()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *fakeMessageRepo) InsertMessages(ctx context.Context, msgs []*models.Message) error {
	if r.batchErr != nil {
		return r.batchErr
	}
	for _, m := range msgs {
		m.ID = primitive.NewObjectID()
		r.messages = append(r.messages, *m)
	}
	return nil
}

func (r *fakeMessageRepo) GetConversation(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if (m.SenderID == userID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMessageRepo) GetUserMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func testLogger() *logging.Logger {
	return logging.New().SetLevel(logging.LevelError)
}
