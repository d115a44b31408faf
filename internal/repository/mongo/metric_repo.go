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

const metricCollectionName = "progress_metrics"

// mongoMetricRepository implements repository.ProgressMetricRepository
type mongoMetricRepository struct {
	collection *mongo.Collection
}

// NewMongoMetricRepository creates a new ProgressMetric repository.
func NewMongoMetricRepository(db *mongo.Database) repository.ProgressMetricRepository {
	return &mongoMetricRepository{
		collection: db.Collection(metricCollectionName),
	}
}

// Create inserts a new measurement.
func (r *mongoMetricRepository) Create(ctx context.Context, metric *domain.ProgressMetric) (primitive.ObjectID, error) {
	if metric.ClientID == primitive.NilObjectID || metric.Type == "" {
		return primitive.NilObjectID, errors.New("metric requires clientId and type")
	}
	metric.ID = primitive.NewObjectID()
	metric.CreatedAt = time.Now().UTC()
	if metric.RecordedAt.IsZero() {
		metric.RecordedAt = metric.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, metric)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted metric ID")
	}
	return insertedID, nil
}

// GetByClientAndType retrieves all measurements of one kind for a client, in
// recording order.
func (r *mongoMetricRepository) GetByClientAndType(ctx context.Context, clientID primitive.ObjectID, metricType domain.MetricType) ([]domain.ProgressMetric, error) {
	filter := bson.M{"clientId": clientID, "type": metricType}
	return r.find(ctx, filter)
}

// GetByClientID retrieves every measurement for a client, in recording order.
func (r *mongoMetricRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressMetric, error) {
	return r.find(ctx, bson.M{"clientId": clientID})
}

func (r *mongoMetricRepository) find(ctx context.Context, filter bson.M) ([]domain.ProgressMetric, error) {
	var metrics []domain.ProgressMetric
	findOptions := options.Find().SetSort(bson.D{{Key: "recordedAt", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &metrics); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return metrics, nil
}

// EnsureMetricIndexes creates necessary indexes. Call during startup.
func EnsureMetricIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "type", Value: 1}, {Key: "recordedAt", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
