package service

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/repository"
	"boltfit/coaching-app/internal/storage"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyAssigned = errors.New("client is already assigned to a trainer")
	ErrClientNotManaged      = errors.New("client is not managed by this trainer")
)

type TrainerService interface {
	// Client Management
	AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error)

	// Plan Management
	CreatePlan(ctx context.Context, trainerID, clientID primitive.ObjectID, name, description string, startDate, endDate time.Time, schedule domain.Schedule) (*domain.WorkoutPlan, error)
	GetPlansForClient(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	UpdatePlan(ctx context.Context, trainerID, planID primitive.ObjectID, name, description string, startDate, endDate time.Time, schedule domain.Schedule, isActive bool) (*domain.WorkoutPlan, error)
	DeletePlan(ctx context.Context, trainerID, planID primitive.ObjectID) error
	GetPlanSessions(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error)

	// Client Progress Review
	GetClientMetricSeries(ctx context.Context, trainerID, clientID primitive.ObjectID, metricType domain.MetricType) (*domain.MetricSeries, error)
	GetClientPhotos(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]ClientPhoto, error)
}

// ClientPhoto pairs upload metadata with a temporary download URL.
type ClientPhoto struct {
	domain.MediaUpload
	DownloadURL string `json:"downloadUrl"`
}

// trainerService implements the TrainerService interface.
type trainerService struct {
	userRepo    repository.UserRepository
	planRepo    repository.WorkoutPlanRepository
	sessionRepo repository.PlanSessionRepository
	metricRepo  repository.ProgressMetricRepository
	mediaRepo   repository.MediaUploadRepository
	fileStorage storage.FileStorage
}

// NewTrainerService creates a new instance of trainerService.
func NewTrainerService(
	userRepo repository.UserRepository,
	planRepo repository.WorkoutPlanRepository,
	sessionRepo repository.PlanSessionRepository,
	metricRepo repository.ProgressMetricRepository,
	mediaRepo repository.MediaUploadRepository,
	fileStorage storage.FileStorage,
) TrainerService {
	return &trainerService{
		userRepo:    userRepo,
		planRepo:    planRepo,
		sessionRepo: sessionRepo,
		metricRepo:  metricRepo,
		mediaRepo:   mediaRepo,
		fileStorage: fileStorage,
	}
}

// === Client Management ===

// AddClientByEmail finds a client by email and assigns them to the trainer.
func (s *trainerService) AddClientByEmail(ctx context.Context, trainerID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if trainerID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("trainer ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.TrainerID != nil && *client.TrainerID != primitive.NilObjectID {
		if *client.TrainerID == trainerID {
			// Already managed by this trainer; treat as success.
			return client, nil
		}
		return nil, ErrClientAlreadyAssigned
	}

	// Update both sides of the association. Not transactional: if the second
	// write fails, the trainer's roster references a client that does not
	// point back yet.
	if err := s.userRepo.AddClientIDToTrainer(ctx, trainerID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetTrainerForClient(ctx, client.ID, trainerID); err != nil {
		return nil, err
	}

	client.TrainerID = &trainerID
	return client, nil
}

// GetManagedClients retrieves the list of clients coached by the trainer.
func (s *trainerService) GetManagedClients(ctx context.Context, trainerID primitive.ObjectID) ([]domain.User, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}
	clients, err := s.userRepo.GetClientsByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// === Plan Management ===

// CreatePlan validates and stores a new plan for a managed client. Session
// generation is a separate, explicit step (ScheduleService).
func (s *trainerService) CreatePlan(ctx context.Context, trainerID, clientID primitive.ObjectID, name, description string, startDate, endDate time.Time, schedule domain.Schedule) (*domain.WorkoutPlan, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID || name == "" {
		return nil, errors.New("trainer ID, client ID, and name are required")
	}

	if err := s.requireManagedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}

	plan := &domain.WorkoutPlan{
		TrainerID:   trainerID,
		ClientID:    clientID,
		Name:        name,
		Description: description,
		StartDate:   startDate,
		EndDate:     endDate,
		Schedule:    schedule,
	}
	// Malformed schedule payloads fail here, before anything is persisted.
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	return s.planRepo.GetByID(ctx, planID)
}

// GetPlansForClient lists the trainer's plans for one of their clients.
func (s *trainerService) GetPlansForClient(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	if trainerID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and client ID are required")
	}
	return s.planRepo.GetByClientAndTrainerID(ctx, clientID, trainerID)
}

// UpdatePlan replaces a plan's declaration. Previously generated sessions are
// left untouched; the caller regenerates them explicitly when the schedule
// changed. Activating a plan deactivates the client's other plans.
func (s *trainerService) UpdatePlan(ctx context.Context, trainerID, planID primitive.ObjectID, name, description string, startDate, endDate time.Time, schedule domain.Schedule, isActive bool) (*domain.WorkoutPlan, error) {
	plan, err := s.loadOwnedPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}

	plan.Name = name
	plan.Description = description
	plan.StartDate = startDate
	plan.EndDate = endDate
	plan.Schedule = schedule
	plan.IsActive = isActive
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if isActive {
		if err := s.planRepo.DeactivateOtherPlansForClient(ctx, plan.ClientID, trainerID, planID); err != nil {
			return nil, err
		}
	}
	return s.planRepo.GetByID(ctx, planID)
}

// DeletePlan removes a plan together with all sessions generated from it.
func (s *trainerService) DeletePlan(ctx context.Context, trainerID, planID primitive.ObjectID) error {
	if _, err := s.loadOwnedPlan(ctx, trainerID, planID); err != nil {
		return err
	}
	if err := s.planRepo.Delete(ctx, planID, trainerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	_, err := s.sessionRepo.DeleteByPlanID(ctx, planID)
	return err
}

// GetPlanSessions returns the generated calendar for one of the trainer's plans.
func (s *trainerService) GetPlanSessions(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error) {
	if _, err := s.loadOwnedPlan(ctx, trainerID, planID); err != nil {
		return nil, err
	}
	return s.sessionRepo.GetByPlanID(ctx, planID)
}

// === Client Progress Review ===

// GetClientMetricSeries returns a chart-ready series for a managed client.
func (s *trainerService) GetClientMetricSeries(ctx context.Context, trainerID, clientID primitive.ObjectID, metricType domain.MetricType) (*domain.MetricSeries, error) {
	if !domain.ValidMetricType(metricType) {
		return nil, errors.New("unknown metric type")
	}
	if err := s.requireManagedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	metrics, err := s.metricRepo.GetByClientAndType(ctx, clientID, metricType)
	if err != nil {
		return nil, err
	}
	series := domain.BuildMetricSeries(metricType, metrics)
	return &series, nil
}

// GetClientPhotos lists a managed client's progress photos with temporary
// download URLs.
func (s *trainerService) GetClientPhotos(ctx context.Context, trainerID, clientID primitive.ObjectID) ([]ClientPhoto, error) {
	if err := s.requireManagedClient(ctx, trainerID, clientID); err != nil {
		return nil, err
	}
	uploads, err := s.mediaRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	photos := make([]ClientPhoto, 0, len(uploads))
	for _, upload := range uploads {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, upload.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, err
		}
		photos = append(photos, ClientPhoto{MediaUpload: upload, DownloadURL: url})
	}
	return photos, nil
}

// --- helpers ---

func (s *trainerService) requireManagedClient(ctx context.Context, trainerID, clientID primitive.ObjectID) error {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrClientNotFound
		}
		return err
	}
	if client.TrainerID == nil || *client.TrainerID != trainerID {
		return ErrClientNotManaged
	}
	return nil
}

func (s *trainerService) loadOwnedPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	if trainerID == primitive.NilObjectID || planID == primitive.NilObjectID {
		return nil, errors.New("trainer ID and plan ID are required")
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.TrainerID != trainerID {
		return nil, ErrPlanAccessDenied
	}
	return plan, nil
}
