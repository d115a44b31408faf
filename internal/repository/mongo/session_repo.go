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

const sessionCollectionName = "plan_sessions"

// mongoSessionRepository implements repository.PlanSessionRepository
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new PlanSession repository.
func NewMongoSessionRepository(db *mongo.Database) repository.PlanSessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// CreateMany inserts all generated sessions in a single batch. A rejected
// batch is reported as one error; no partial-success reporting is attempted.
func (r *mongoSessionRepository) CreateMany(ctx context.Context, sessions []domain.PlanSession) error {
	if len(sessions) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(sessions))
	for i := range sessions {
		sessions[i].ID = primitive.NewObjectID()
		sessions[i].CreatedAt = now
		sessions[i].UpdatedAt = now
		docs = append(docs, sessions[i])
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a single session by its ID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanSession, error) {
	var session domain.PlanSession
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetByPlanID retrieves all sessions generated for a plan, in date order.
func (r *mongoSessionRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanSession, error) {
	var sessions []domain.PlanSession
	filter := bson.M{"planId": planID}
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetByClientAndDateRange retrieves a client's sessions scheduled in [from, to],
// in date order. Used for the upcoming-sessions screen.
func (r *mongoSessionRepository) GetByClientAndDateRange(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.PlanSession, error) {
	var sessions []domain.PlanSession
	filter := bson.M{
		"clientId":      clientID,
		"scheduledDate": bson.M{"$gte": from, "$lte": to},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// UpdateStatus transitions a session's status. The filter includes clientId so
// a client can only touch their own sessions.
func (r *mongoSessionRepository) UpdateStatus(ctx context.Context, sessionID, clientID primitive.ObjectID, status domain.SessionStatus) error {
	if sessionID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return errors.New("session ID and client ID are required")
	}

	now := time.Now().UTC()
	set := bson.M{
		"status":    status,
		"updatedAt": now,
	}
	if status == domain.SessionCompleted {
		set["completedAt"] = now
	}

	filter := bson.M{"_id": sessionID, "clientId": clientID}
	result, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByPlanID removes every session generated for a plan and returns the
// number deleted. Called before regeneration and on plan deletion.
func (r *mongoSessionRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	if planID == primitive.NilObjectID {
		return 0, errors.New("plan ID is required")
	}
	result, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureSessionIndexes creates necessary indexes. Call during startup.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index(),
		},
		{
			// Main client query: sessions in a date window
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
