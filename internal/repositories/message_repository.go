package repositories

import (
	"context"
	"time"

	"github.com/nabilhq/openwall/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for chat message operations
type MessageRepository interface {
	InsertMessage(ctx context.Context, msg *models.Message) error
	// InsertMessages persists a multi-recipient batch atomically: all rows or none.
	InsertMessages(ctx context.Context, msgs []*models.Message) error
	GetConversation(ctx context.Context, userID, otherID uint) ([]models.Message, error)
	GetUserMessages(ctx context.Context, userID uint) ([]models.Message, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(client *mongo.Client, db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{client: client, collection: db.Collection("messages")}
}

// InsertMessage persists a single chat message
func (r *MongoMessageRepository) InsertMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, msg)
	return err
}

// InsertMessages persists a share batch inside one session transaction
func (r *MongoMessageRepository) InsertMessages(ctx context.Context, msgs []*models.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, len(msgs))
	for i, m := range msgs {
		m.ID = primitive.NewObjectID()
		m.CreatedAt = now
		docs[i] = m
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.collection.InsertMany(sc, docs)
	})
	return err
}

// GetConversation retrieves all messages between two users, oldest first
func (r *MongoMessageRepository) GetConversation(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID, "receiver_id": otherID},
		bson.M{"sender_id": otherID, "receiver_id": userID},
	}}
	return r.find(ctx, filter)
}

// GetUserMessages retrieves all messages where the user is sender or
// receiver, oldest first
func (r *MongoMessageRepository) GetUserMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}}
	return r.find(ctx, filter)
}

func (r *MongoMessageRepository) find(ctx context.Context, filter bson.M) ([]models.Message, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
