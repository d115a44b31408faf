package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/repository"
	"boltfit/coaching-app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakePlanRepo struct {
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func newFakePlanRepo(plans ...*domain.WorkoutPlan) *fakePlanRepo {
	r := &fakePlanRepo{plans: map[primitive.ObjectID]*domain.WorkoutPlan{}}
	for _, p := range plans {
		r.plans[p.ID] = p
	}
	return r
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	r.plans[plan.ID] = plan
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return plan, nil
}

func (r *fakePlanRepo) GetByClientAndTrainerID(ctx context.Context, clientID, trainerID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.ClientID == clientID && p.TrainerID == trainerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	r.plans[plan.ID] = plan
	return nil
}

func (r *fakePlanRepo) Delete(ctx context.Context, planID, trainerID primitive.ObjectID) error {
	plan, ok := r.plans[planID]
	if !ok || plan.TrainerID != trainerID {
		return repository.ErrNotFound
	}
	delete(r.plans, planID)
	return nil
}

func (r *fakePlanRepo) DeactivateOtherPlansForClient(ctx context.Context, clientID, trainerID, excludePlanID primitive.ObjectID) error {
	for _, p := range r.plans {
		if p.ClientID == clientID && p.TrainerID == trainerID && p.ID != excludePlanID {
			p.IsActive = false
		}
	}
	return nil
}

type fakeSessionRepo struct {
	sessions    []domain.PlanSession
	insertErr   error
	deleteErr   error
	deleteCalls int
	insertCalls int
}

func (r *fakeSessionRepo) CreateMany(ctx context.Context, sessions []domain.PlanSession) error {
	r.insertCalls++
	if r.insertErr != nil {
		return r.insertErr
	}
	for i := range sessions {
		sessions[i].ID = primitive.NewObjectID()
	}
	r.sessions = append(r.sessions, sessions...)
	return nil
}

func (r *fakeSessionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanSession, error) {
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			return &r.sessions[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeSessionRepo) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.PlanSession, error) {
	var out []domain.PlanSession
	for _, s := range r.sessions {
		if s.PlanID == planID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) GetByClientAndDateRange(ctx context.Context, clientID primitive.ObjectID, from, to time.Time) ([]domain.PlanSession, error) {
	var out []domain.PlanSession
	for _, s := range r.sessions {
		if s.ClientID == clientID && !s.ScheduledDate.Before(from) && !s.ScheduledDate.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) UpdateStatus(ctx context.Context, sessionID, clientID primitive.ObjectID, status domain.SessionStatus) error {
	for i := range r.sessions {
		if r.sessions[i].ID == sessionID && r.sessions[i].ClientID == clientID {
			r.sessions[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeSessionRepo) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	r.deleteCalls++
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	var kept []domain.PlanSession
	var removed int64
	for _, s := range r.sessions {
		if s.PlanID == planID {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.sessions = kept
	return removed, nil
}

func testPlan(trainerID primitive.ObjectID) *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		ID:        primitive.NewObjectID(),
		TrainerID: trainerID,
		ClientID:  primitive.NewObjectID(),
		Name:      "Strength Block",
		StartDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, time.January, 14, 0, 0, 0, 0, time.UTC),
		Schedule: domain.Schedule{
			Type:   domain.ScheduleWeekly,
			Weekly: domain.WeekdayMap{"Monday": primitive.NewObjectID(), "Thursday": primitive.NewObjectID()},
		},
		IsActive: true,
	}
}

func TestScheduleService_GenerateSessions(t *testing.T) {
	ctx := context.Background()
	trainerID := primitive.NewObjectID()
	plan := testPlan(trainerID)
	sessionRepo := &fakeSessionRepo{}
	svc := service.NewScheduleService(newFakePlanRepo(plan), sessionRepo)

	sessions, err := svc.GenerateSessions(ctx, trainerID, plan.ID)
	require.NoError(t, err)
	// Two mapped weekdays over two weeks.
	assert.Len(t, sessions, 4)
	assert.Len(t, sessionRepo.sessions, 4)
	assert.Equal(t, 1, sessionRepo.insertCalls)
	for _, s := range sessionRepo.sessions {
		assert.Equal(t, plan.ID, s.PlanID)
		assert.Equal(t, plan.ClientID, s.ClientID)
		assert.Equal(t, domain.SessionScheduled, s.Status)
	}
}

func TestScheduleService_GenerateSessions_DuplicatesOnRepeat(t *testing.T) {
	ctx := context.Background()
	trainerID := primitive.NewObjectID()
	plan := testPlan(trainerID)
	sessionRepo := &fakeSessionRepo{}
	svc := service.NewScheduleService(newFakePlanRepo(plan), sessionRepo)

	_, err := svc.GenerateSessions(ctx, trainerID, plan.ID)
	require.NoError(t, err)
	_, err = svc.GenerateSessions(ctx, trainerID, plan.ID)
	require.NoError(t, err)

	// Generation never deduplicates: two runs mean two full sets.
	assert.Len(t, sessionRepo.sessions, 8)
}

func TestScheduleService_GenerateSessions_EmptyScheduleSkipsInsert(t *testing.T) {
	ctx := context.Background()
	trainerID := primitive.NewObjectID()
	plan := testPlan(trainerID)
	plan.Schedule.Weekly = nil
	sessionRepo := &fakeSessionRepo{}
	svc := service.NewScheduleService(newFakePlanRepo(plan), sessionRepo)

	sessions, err := svc.GenerateSessions(ctx, trainerID, plan.ID)
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	assert.Empty(t, sessions)
	assert.Zero(t, sessionRepo.insertCalls)
}

func TestScheduleService_GenerateSessions_InsertFailure(t *testing.T) {
	ctx := context.Background()
	trainerID := primitive.NewObjectID()
	plan := testPlan(trainerID)
	insertErr := errors.New("bulk write exception")
	sessionRepo := &fakeSessionRepo{insertErr: insertErr}
	svc := service.NewScheduleService(newFakePlanRepo(plan), sessionRepo)

	// The whole batch fails as one error; nothing is reported as partially written.
	sessions, err := svc.GenerateSessions(ctx, trainerID, plan.ID)
	assert.ErrorIs(t, err, insertErr)
	assert.Nil(t, sessions)
	assert.Empty(t, sessionRepo.sessions)
}

func TestScheduleService_GenerateSessions_Authorization(t *testing.T) {
	ctx := context.Background()
	trainerID := primitive.NewObjectID()
	plan := testPlan(trainerID)
	svc := service.NewScheduleService(newFakePlanRepo(plan), &fakeSessionRepo{})

	t.Run("unknown plan", func(t *testing.T) {
		_, err := svc.GenerateSessions(ctx, trainerID, primitive.NewObjectID())
		assert.ErrorIs(t, err, service.ErrPlanNotFound)
	})

	t.Run("other trainer's plan", func(t *testing.T) {
		_, err := svc.GenerateSessions(ctx, primitive.NewObjectID(), plan.ID)
		assert.ErrorIs(t, err, service.ErrPlanAccessDenied)
	})
}

func TestScheduleService_RegenerateSessions(t *testing.T) {
	ctx := context.Background()
	trainerID := primitive.NewObjectID()
	plan := testPlan(trainerID)
	sessionRepo := &fakeSessionRepo{}
	svc := service.NewScheduleService(newFakePlanRepo(plan), sessionRepo)

	_, err := svc.GenerateSessions(ctx, trainerID, plan.ID)
	require.NoError(t, err)
	require.Len(t, sessionRepo.sessions, 4)

	sessions, err := svc.RegenerateSessions(ctx, trainerID, plan.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 4)
	// Old rows are cleared before the fresh insert, so the count is stable.
	assert.Len(t, sessionRepo.sessions, 4)
	assert.Equal(t, 1, sessionRepo.deleteCalls)
	assert.Equal(t, 2, sessionRepo.insertCalls)
}

func TestScheduleService_RegenerateSessions_DeleteFailureStopsGeneration(t *testing.T) {
	ctx := context.Background()
	trainerID := primitive.NewObjectID()
	plan := testPlan(trainerID)
	deleteErr := errors.New("delete failed")
	sessionRepo := &fakeSessionRepo{deleteErr: deleteErr}
	svc := service.NewScheduleService(newFakePlanRepo(plan), sessionRepo)

	_, err := svc.RegenerateSessions(ctx, trainerID, plan.ID)
	assert.ErrorIs(t, err, deleteErr)
	assert.Zero(t, sessionRepo.insertCalls)
}

func TestScheduleService_RegenerateSessions_ChecksOwnershipBeforeDelete(t *testing.T) {
	ctx := context.Background()
	plan := testPlan(primitive.NewObjectID())
	sessionRepo := &fakeSessionRepo{}
	svc := service.NewScheduleService(newFakePlanRepo(plan), sessionRepo)

	_, err := svc.RegenerateSessions(ctx, primitive.NewObjectID(), plan.ID)
	assert.ErrorIs(t, err, service.ErrPlanAccessDenied)
	assert.Zero(t, sessionRepo.deleteCalls)
}

func TestScheduleService_PreviewSessions(t *testing.T) {
	ctx := context.Background()
	trainerID := primitive.NewObjectID()
	plan := testPlan(trainerID)
	sessionRepo := &fakeSessionRepo{}
	svc := service.NewScheduleService(newFakePlanRepo(plan), sessionRepo)

	sessions, err := svc.PreviewSessions(ctx, trainerID, plan.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 4)
	// Preview never writes.
	assert.Zero(t, sessionRepo.insertCalls)
	assert.Empty(t, sessionRepo.sessions)
}
