package service

import (
	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound     = errors.New("workout plan not found")
	ErrPlanAccessDenied = errors.New("access denied to this workout plan")
)

// ScheduleService turns a plan's recurrence declaration into persisted
// PlanSession rows. Expansion itself is pure (domain.ExpandPlanSessions); this
// service owns the ownership check and the delete/insert side effects.
type ScheduleService interface {
	// GenerateSessions expands the plan and batch-inserts the result. It does
	// not check for previously generated rows: generating twice duplicates
	// every matching session. Use RegenerateSessions for the usual
	// delete-then-generate flow.
	GenerateSessions(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error)

	// RegenerateSessions deletes the plan's existing sessions and generates a
	// fresh set. The delete and insert are separate calls, not one
	// transaction; concurrent regeneration of the same plan can duplicate
	// rows and is the caller's responsibility to avoid.
	RegenerateSessions(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error)

	// PreviewSessions expands the plan without persisting anything, so the
	// trainer can review the calendar before saving.
	PreviewSessions(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error)
}

type scheduleService struct {
	planRepo    repository.WorkoutPlanRepository
	sessionRepo repository.PlanSessionRepository
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(planRepo repository.WorkoutPlanRepository, sessionRepo repository.PlanSessionRepository) ScheduleService {
	return &scheduleService{
		planRepo:    planRepo,
		sessionRepo: sessionRepo,
	}
}

func (s *scheduleService) GenerateSessions(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error) {
	plan, err := s.loadOwnedPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}

	sessions := domain.ExpandPlanSessions(plan)
	if len(sessions) == 0 {
		// Nothing matched; an empty schedule is not an error.
		return []domain.PlanSession{}, nil
	}

	// One batch insert; a rejected batch surfaces as a single failure with no
	// partial-success reporting and no retry.
	if err := s.sessionRepo.CreateMany(ctx, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (s *scheduleService) RegenerateSessions(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error) {
	// Ownership is checked before the destructive delete.
	if _, err := s.loadOwnedPlan(ctx, trainerID, planID); err != nil {
		return nil, err
	}
	if _, err := s.sessionRepo.DeleteByPlanID(ctx, planID); err != nil {
		return nil, err
	}
	return s.GenerateSessions(ctx, trainerID, planID)
}

func (s *scheduleService) PreviewSessions(ctx context.Context, trainerID, planID primitive.ObjectID) ([]domain.PlanSession, error) {
	plan, err := s.loadOwnedPlan(ctx, trainerID, planID)
	if err != nil {
		return nil, err
	}
	sessions := domain.ExpandPlanSessions(plan)
	if sessions == nil {
		sessions = []domain.PlanSession{}
	}
	return sessions, nil
}

func (s *scheduleService) loadOwnedPlan(ctx context.Context, trainerID, planID primitive.ObjectID) (*domain.WorkoutPlan, error) {
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
