package service

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/repository"
	"boltfit/coaching-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrSessionNotFound        = errors.New("session not found")
	ErrSessionNotOwned        = errors.New("session does not belong to this client")
	ErrInvalidSessionStatus   = errors.New("invalid session status transition")
	ErrInvalidMetric          = errors.New("invalid progress metric")
	ErrUploadURLError         = errors.New("failed to generate upload URL")
	ErrDownloadURLError       = errors.New("failed to generate download URL")
	ErrUnsupportedContentType = errors.New("unsupported content type for progress photo")
)

// UploadURLResponse carries a presigned PUT URL and the object key the client
// must report back on confirm.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// SessionDetails combines a generated session with its workout template.
type SessionDetails struct {
	domain.PlanSession
	Template *domain.WorkoutTemplate `json:"template,omitempty"`
}

type ClientService interface {
	// Session Viewing & Completion
	GetMySessions(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]SessionDetails, error)
	SetSessionStatus(ctx context.Context, clientID, sessionID primitive.ObjectID, status domain.SessionStatus) (*domain.PlanSession, error)

	// Progress Metrics
	LogMetric(ctx context.Context, clientID primitive.ObjectID, metricType domain.MetricType, value float64, unit string, recordedAt time.Time, notes string) (*domain.ProgressMetric, error)
	GetMetricSeries(ctx context.Context, clientID primitive.ObjectID, metricType domain.MetricType) (*domain.MetricSeries, error)

	// Progress Photos
	RequestPhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*UploadURLResponse, error)
	ConfirmPhotoUpload(ctx context.Context, clientID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.MediaUpload, error)
}

// clientService implements the ClientService interface.
type clientService struct {
	userRepo     repository.UserRepository
	sessionRepo  repository.PlanSessionRepository
	templateRepo repository.WorkoutTemplateRepository
	metricRepo   repository.ProgressMetricRepository
	mediaRepo    repository.MediaUploadRepository
	fileStorage  storage.FileStorage
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	userRepo repository.UserRepository,
	sessionRepo repository.PlanSessionRepository,
	templateRepo repository.WorkoutTemplateRepository,
	metricRepo repository.ProgressMetricRepository,
	mediaRepo repository.MediaUploadRepository,
	fileStorage storage.FileStorage,
) ClientService {
	return &clientService{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		templateRepo: templateRepo,
		metricRepo:   metricRepo,
		mediaRepo:    mediaRepo,
		fileStorage:  fileStorage,
	}
}

// === Session Viewing & Completion ===

// GetMySessions retrieves the client's sessions scheduled in [from, to],
// enriched with their workout templates.
func (s *clientService) GetMySessions(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]SessionDetails, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	sessions, err := s.sessionRepo.GetByClientAndDateRange(ctx, clientID, from, to)
	if err != nil {
		return nil, err
	}

	// Templates repeat across sessions; fetch each once.
	templates := make(map[primitive.ObjectID]*domain.WorkoutTemplate)
	details := make([]SessionDetails, 0, len(sessions))
	for _, session := range sessions {
		detail := SessionDetails{PlanSession: session}
		if session.TemplateID != nil {
			template, ok := templates[*session.TemplateID]
			if !ok {
				template, err = s.templateRepo.GetByID(ctx, *session.TemplateID)
				if err != nil {
					if !errors.Is(err, repository.ErrNotFound) {
						return nil, err
					}
					// Template was deleted after generation; the session still renders.
					template = nil
				}
				templates[*session.TemplateID] = template
			}
			detail.Template = template
		}
		details = append(details, detail)
	}
	return details, nil
}

// SetSessionStatus marks one of the client's sessions completed, skipped, or
// cancelled. Generated sessions start as scheduled; this is the only place
// their status changes.
func (s *clientService) SetSessionStatus(ctx context.Context, clientID, sessionID primitive.ObjectID, status domain.SessionStatus) (*domain.PlanSession, error) {
	if clientID == primitive.NilObjectID || sessionID == primitive.NilObjectID {
		return nil, errors.New("client ID and session ID are required")
	}
	switch status {
	case domain.SessionCompleted, domain.SessionSkipped, domain.SessionCancelled:
	default:
		return nil, ErrInvalidSessionStatus
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.ClientID != clientID {
		return nil, ErrSessionNotOwned
	}

	if err := s.sessionRepo.UpdateStatus(ctx, sessionID, clientID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return s.sessionRepo.GetByID(ctx, sessionID)
}

// === Progress Metrics ===

// LogMetric records one measurement for the client.
func (s *clientService) LogMetric(ctx context.Context, clientID primitive.ObjectID, metricType domain.MetricType, value float64, unit string, recordedAt time.Time, notes string) (*domain.ProgressMetric, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	if !domain.ValidMetricType(metricType) || value <= 0 {
		return nil, ErrInvalidMetric
	}

	metric := &domain.ProgressMetric{
		ClientID:   clientID,
		Type:       metricType,
		Value:      value,
		Unit:       unit,
		RecordedAt: recordedAt,
		Notes:      notes,
	}
	metricID, err := s.metricRepo.Create(ctx, metric)
	if err != nil {
		return nil, err
	}
	metric.ID = metricID
	return metric, nil
}

// GetMetricSeries returns a chart-ready series of the client's own measurements.
func (s *clientService) GetMetricSeries(ctx context.Context, clientID primitive.ObjectID, metricType domain.MetricType) (*domain.MetricSeries, error) {
	if !domain.ValidMetricType(metricType) {
		return nil, ErrInvalidMetric
	}
	metrics, err := s.metricRepo.GetByClientAndType(ctx, clientID, metricType)
	if err != nil {
		return nil, err
	}
	series := domain.BuildMetricSeries(metricType, metrics)
	return &series, nil
}

// === Progress Photos ===

// RequestPhotoUploadURL generates a presigned URL for uploading a progress
// photo directly to S3.
func (s *clientService) RequestPhotoUploadURL(ctx context.Context, clientID primitive.ObjectID, contentType string) (*UploadURLResponse, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrUnsupportedContentType
	}

	uniqueID := uuid.NewString()
	fileExtension := ""
	if parts := strings.Split(contentType, "/"); len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("photos", clientID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}
	return &UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

// ConfirmPhotoUpload records metadata after the client has PUT the file to S3
// using the presigned URL.
func (s *clientService) ConfirmPhotoUpload(ctx context.Context, clientID primitive.ObjectID, objectKey, fileName string, fileSize int64, contentType string) (*domain.MediaUpload, error) {
	if clientID == primitive.NilObjectID || objectKey == "" {
		return nil, errors.New("client ID and object key are required")
	}

	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	upload := &domain.MediaUpload{
		ClientID:    clientID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        fileSize,
	}
	if client.TrainerID != nil {
		upload.TrainerID = *client.TrainerID
	}

	uploadID, err := s.mediaRepo.Create(ctx, upload)
	if err != nil {
		return nil, err
	}
	upload.ID = uploadID
	return upload, nil
}
