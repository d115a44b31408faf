package mongo

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const messageCollectionName = "messages"

// mongoMessageRepository implements repository.MessageRepository
type mongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new Message repository.
func NewMongoMessageRepository(db *mongo.Database) repository.MessageRepository {
	return &mongoMessageRepository{
		collection: db.Collection(messageCollectionName),
	}
}

// Create inserts a new chat message.
func (r *mongoMessageRepository) Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error) {
	if message.SenderID == primitive.NilObjectID || message.RecipientID == primitive.NilObjectID || message.Body == "" {
		return primitive.NilObjectID, errors.New("message requires senderId, recipientId, and body")
	}
	message.ID = primitive.NewObjectID()
	message.SentAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted message ID")
	}
	return insertedID, nil
}

// GetConversation retrieves the most recent messages exchanged between two
// users, oldest first so the app can render them top-down.
func (r *mongoMessageRepository) GetConversation(ctx context.Context, userA, userB primitive.ObjectID, limit int64) ([]domain.Message, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"senderId": userA, "recipientId": userB},
			bson.M{"senderId": userB, "recipientId": userA},
		},
	}
	// Fetch newest first to apply the limit, then reverse.
	findOptions := options.Find().SetSort(bson.D{{Key: "sentAt", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []domain.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkConversationRead stamps ReadAt on every unread message sent by senderID
// to recipientID and returns how many were marked.
func (r *mongoMessageRepository) MarkConversationRead(ctx context.Context, recipientID, senderID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"senderId":    senderID,
		"recipientId": recipientID,
		"readAt":      bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"readAt": time.Now().UTC()}}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// EnsureMessageIndexes creates necessary indexes. Call during startup.
func EnsureMessageIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "senderId", Value: 1}, {Key: "recipientId", Value: 1}, {Key: "sentAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "recipientId", Value: 1}, {Key: "readAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
