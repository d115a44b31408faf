package repository

import (
	"boltfit/coaching-app/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToTrainer(ctx context.Context, trainerID, clientID primitive.ObjectID) error
	GetClientsByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)
	SetTrainerForClient(ctx context.Context, clientID, trainerID primitive.ObjectID) error
	SetAvatarKey(ctx context.Context, userID primitive.ObjectID, objectKey string) error
}

// WorkoutTemplateRepository defines the interface for the trainer's template library.
type WorkoutTemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	Update(ctx context.Context, template *domain.WorkoutTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID, trainerID primitive.ObjectID) error // Ensure trainer owns the template
}

// WorkoutPlanRepository defines the interface for interacting with plan data.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error)
	GetByClientAndTrainerID(ctx context.Context, clientID, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	Update(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, planID primitive.ObjectID, trainerID primitive.ObjectID) error
	DeactivateOtherPlansForClient(ctx context.Context, clientID, trainerID, excludePlanID primitive.ObjectID) error
}

// PlanSessionRepository defines the interface for generated session rows.
// CreateMany is the single batch insert the schedule expander submits;
// DeleteByPlanID clears a plan's rows before regeneration.
type PlanSessionRepository interface {
	CreateMany(ctx context.Context, sessions []domain.PlanSession) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanSession, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanSession, error)
	GetByClientAndDateRange(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.PlanSession, error)
	UpdateStatus(ctx context.Context, sessionID, clientID primitive.ObjectID, status domain.SessionStatus) error
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error)
}

// MessageRepository defines the interface for trainer/client chat messages.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error)
	GetConversation(ctx context.Context, userA, userB primitive.ObjectID, limit int64) ([]domain.Message, error)
	MarkConversationRead(ctx context.Context, recipientID, senderID primitive.ObjectID) (int64, error)
}

// ProgressMetricRepository defines the interface for client measurements.
type ProgressMetricRepository interface {
	Create(ctx context.Context, metric *domain.ProgressMetric) (primitive.ObjectID, error)
	GetByClientAndType(ctx context.Context, clientID primitive.ObjectID, metricType domain.MetricType) ([]domain.ProgressMetric, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgressMetric, error)
}

// MediaUploadRepository defines the interface for progress-photo metadata.
type MediaUploadRepository interface {
	Create(ctx context.Context, upload *domain.MediaUpload) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.MediaUpload, error)
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.MediaUpload, error)
}
