package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus type for the session lifecycle
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled" // Initial status of every generated session
	SessionCompleted SessionStatus = "completed"
	SessionSkipped   SessionStatus = "skipped"
	SessionCancelled SessionStatus = "cancelled"
)

// PlanSession is one concrete, dated occurrence generated from a WorkoutPlan.
// Rows are created exclusively by schedule expansion; later status changes are
// owned by the session-completion flow in ClientService.
type PlanSession struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlanID     primitive.ObjectID  `bson:"planId" json:"planId"`
	TemplateID *primitive.ObjectID `bson:"templateId,omitempty" json:"templateId,omitempty"`
	ClientID   primitive.ObjectID  `bson:"clientId" json:"clientId"`   // Denormalized for client queries
	TrainerID  primitive.ObjectID  `bson:"trainerId" json:"trainerId"` // Denormalized for trainer queries/auth

	ScheduledDate time.Time `bson:"scheduledDate" json:"scheduledDate"` // UTC midnight
	DayOfWeek     string    `bson:"dayOfWeek" json:"dayOfWeek"`         // Denormalized weekday name, kept for query convenience
	WeekNumber    *int      `bson:"weekNumber,omitempty" json:"weekNumber,omitempty"` // Monthly plans only: ceil(day_of_month / 7)

	Status SessionStatus `bson:"status" json:"status"`
	Notes  string        `bson:"notes,omitempty" json:"notes,omitempty"` // Populated from a custom entry's label only

	CompletedAt *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}
