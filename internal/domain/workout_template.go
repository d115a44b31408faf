package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutTemplate is a reusable workout definition in a trainer's library.
// Plans reference templates by ID; generated sessions point back at the
// template to perform on a given day.
type WorkoutTemplate struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Owner
	Name        string             `bson:"name" json:"name"`           // e.g., "Upper Body A", "Long Run"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`     // e.g., "Strength", "Cardio"
	Difficulty  string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"` // e.g., "Novice", "Medium", "Advanced"

	Exercises []TemplateExercise `bson:"exercises,omitempty" json:"exercises,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TemplateExercise is one exercise line inside a template, in execution order.
type TemplateExercise struct {
	Name        string `bson:"name" json:"name"`
	Sets        int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps        string `bson:"reps,omitempty" json:"reps,omitempty"` // Free-form: "8-12", "AMRAP", "30s"
	RestSeconds int    `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
	Notes       string `bson:"notes,omitempty" json:"notes,omitempty"`
}
