package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaUpload stores metadata about a progress photo uploaded by a client.
// The actual file resides in S3; only the object key is kept here.
type MediaUpload struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Denormalized so the trainer can list a client's photos
	S3ObjectKey string             `bson:"s3ObjectKey" json:"-"`       // Internal use only
	FileName    string             `bson:"fileName" json:"fileName"`   // Original filename provided by client
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"` // Bytes
	UploadedAt  time.Time          `bson:"uploadedAt" json:"uploadedAt"`
}
