package service_test

import (
	"context"
	"testing"
	"time"

	"boltfit/coaching-app/internal/domain"
	"boltfit/coaching-app/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func trainerFixture() (*fakeUserRepo, *domain.User, *domain.User) {
	trainer := &domain.User{ID: primitive.NewObjectID(), Name: "Coach", Email: "coach@example.com", Role: domain.RoleTrainer}
	client := &domain.User{ID: primitive.NewObjectID(), Name: "Client", Email: "client@example.com", Role: domain.RoleClient}
	return newFakeUserRepo(trainer, client), trainer, client
}

func newTrainerService(userRepo *fakeUserRepo, planRepo *fakePlanRepo, sessionRepo *fakeSessionRepo) service.TrainerService {
	return service.NewTrainerService(userRepo, planRepo, sessionRepo, &fakeMetricRepo{}, &fakeMediaRepo{}, &fakeFileStorage{})
}

func TestTrainerService_AddClientByEmail(t *testing.T) {
	ctx := context.Background()
	userRepo, trainer, client := trainerFixture()
	svc := newTrainerService(userRepo, newFakePlanRepo(), &fakeSessionRepo{})

	added, err := svc.AddClientByEmail(ctx, trainer.ID, "client@example.com")
	require.NoError(t, err)
	require.NotNil(t, added.TrainerID)
	assert.Equal(t, trainer.ID, *added.TrainerID)

	// Both sides of the association are written.
	assert.Contains(t, userRepo.users[trainer.ID].ClientIDs, client.ID)
	require.NotNil(t, userRepo.users[client.ID].TrainerID)
	assert.Equal(t, trainer.ID, *userRepo.users[client.ID].TrainerID)

	t.Run("re-adding own client is a no-op success", func(t *testing.T) {
		again, err := svc.AddClientByEmail(ctx, trainer.ID, "client@example.com")
		require.NoError(t, err)
		assert.Equal(t, client.ID, again.ID)
		assert.Len(t, userRepo.users[trainer.ID].ClientIDs, 1)
	})

	t.Run("client of another trainer is rejected", func(t *testing.T) {
		other := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleTrainer}
		userRepo.users[other.ID] = other
		_, err := svc.AddClientByEmail(ctx, other.ID, "client@example.com")
		assert.ErrorIs(t, err, service.ErrClientAlreadyAssigned)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.AddClientByEmail(ctx, trainer.ID, "nobody@example.com")
		assert.ErrorIs(t, err, service.ErrClientNotFound)
	})

	t.Run("trainer email is not a client", func(t *testing.T) {
		_, err := svc.AddClientByEmail(ctx, trainer.ID, "coach@example.com")
		assert.ErrorIs(t, err, service.ErrClientNotRole)
	})
}

func TestTrainerService_CreatePlan(t *testing.T) {
	ctx := context.Background()
	userRepo, trainer, client := trainerFixture()
	client.TrainerID = &trainer.ID
	planRepo := newFakePlanRepo()
	svc := newTrainerService(userRepo, planRepo, &fakeSessionRepo{})

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	schedule := domain.Schedule{Type: domain.ScheduleWeekly, Weekly: domain.WeekdayMap{"Monday": primitive.NewObjectID()}}

	plan, err := svc.CreatePlan(ctx, trainer.ID, client.ID, "Base Block", "", start, end, schedule)
	require.NoError(t, err)
	assert.False(t, plan.ID.IsZero())
	assert.Equal(t, trainer.ID, plan.TrainerID)
	assert.Equal(t, client.ID, plan.ClientID)

	t.Run("unmanaged client rejected", func(t *testing.T) {
		stranger := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient}
		userRepo.users[stranger.ID] = stranger
		_, err := svc.CreatePlan(ctx, trainer.ID, stranger.ID, "Plan", "", start, end, schedule)
		assert.ErrorIs(t, err, service.ErrClientNotManaged)
	})

	t.Run("inverted date range rejected before persist", func(t *testing.T) {
		before := len(planRepo.plans)
		_, err := svc.CreatePlan(ctx, trainer.ID, client.ID, "Plan", "", end, start, schedule)
		assert.ErrorIs(t, err, domain.ErrInvalidDateRange)
		assert.Len(t, planRepo.plans, before)
	})

	t.Run("malformed schedule rejected before persist", func(t *testing.T) {
		before := len(planRepo.plans)
		bad := domain.Schedule{Type: domain.ScheduleWeekly, Weekly: domain.WeekdayMap{"Someday": primitive.NewObjectID()}}
		_, err := svc.CreatePlan(ctx, trainer.ID, client.ID, "Plan", "", start, end, bad)
		assert.ErrorIs(t, err, domain.ErrInvalidSchedule)
		assert.Len(t, planRepo.plans, before)
	})
}

func TestTrainerService_UpdatePlan_ActivationDeactivatesOthers(t *testing.T) {
	ctx := context.Background()
	userRepo, trainer, client := trainerFixture()
	client.TrainerID = &trainer.ID

	schedule := domain.Schedule{Type: domain.ScheduleWeekly, Weekly: domain.WeekdayMap{"Monday": primitive.NewObjectID()}}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	older := &domain.WorkoutPlan{
		ID: primitive.NewObjectID(), TrainerID: trainer.ID, ClientID: client.ID,
		Name: "Old Block", StartDate: start, EndDate: end, Schedule: schedule, IsActive: true,
	}
	current := &domain.WorkoutPlan{
		ID: primitive.NewObjectID(), TrainerID: trainer.ID, ClientID: client.ID,
		Name: "New Block", StartDate: start, EndDate: end, Schedule: schedule,
	}
	planRepo := newFakePlanRepo(older, current)
	svc := newTrainerService(userRepo, planRepo, &fakeSessionRepo{})

	updated, err := svc.UpdatePlan(ctx, trainer.ID, current.ID, "New Block", "", start, end, schedule, true)
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.False(t, planRepo.plans[older.ID].IsActive)
}

func TestTrainerService_DeletePlan_RemovesGeneratedSessions(t *testing.T) {
	ctx := context.Background()
	userRepo, trainer, client := trainerFixture()
	client.TrainerID = &trainer.ID

	plan := testPlan(trainer.ID)
	plan.ClientID = client.ID
	planRepo := newFakePlanRepo(plan)
	sessionRepo := &fakeSessionRepo{sessions: []domain.PlanSession{
		{ID: primitive.NewObjectID(), PlanID: plan.ID, ClientID: client.ID},
		{ID: primitive.NewObjectID(), PlanID: plan.ID, ClientID: client.ID},
		{ID: primitive.NewObjectID(), PlanID: primitive.NewObjectID(), ClientID: client.ID},
	}}
	svc := newTrainerService(userRepo, planRepo, sessionRepo)

	require.NoError(t, svc.DeletePlan(ctx, trainer.ID, plan.ID))
	assert.NotContains(t, planRepo.plans, plan.ID)
	// Only the deleted plan's sessions go; the unrelated one stays.
	require.Len(t, sessionRepo.sessions, 1)
	assert.NotEqual(t, plan.ID, sessionRepo.sessions[0].PlanID)

	t.Run("other trainer's plan is protected", func(t *testing.T) {
		protected := testPlan(primitive.NewObjectID())
		planRepo.plans[protected.ID] = protected
		err := svc.DeletePlan(ctx, trainer.ID, protected.ID)
		assert.ErrorIs(t, err, service.ErrPlanAccessDenied)
	})
}

func TestTrainerService_GetClientMetricSeries(t *testing.T) {
	ctx := context.Background()
	userRepo, trainer, client := trainerFixture()
	client.TrainerID = &trainer.ID

	metricRepo := &fakeMetricRepo{metrics: []domain.ProgressMetric{
		{ClientID: client.ID, Type: domain.MetricWeight, Value: 84, Unit: "kg", RecordedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{ClientID: client.ID, Type: domain.MetricWeight, Value: 82, Unit: "kg", RecordedAt: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := service.NewTrainerService(userRepo, newFakePlanRepo(), &fakeSessionRepo{}, metricRepo, &fakeMediaRepo{}, &fakeFileStorage{})

	series, err := svc.GetClientMetricSeries(ctx, trainer.ID, client.ID, domain.MetricWeight)
	require.NoError(t, err)
	assert.InDelta(t, -2.0, series.Change, 0.0001)

	t.Run("unmanaged client rejected", func(t *testing.T) {
		stranger := &domain.User{ID: primitive.NewObjectID(), Role: domain.RoleClient}
		userRepo.users[stranger.ID] = stranger
		_, err := svc.GetClientMetricSeries(ctx, trainer.ID, stranger.ID, domain.MetricWeight)
		assert.ErrorIs(t, err, service.ErrClientNotManaged)
	})
}

func TestTrainerService_GetClientPhotos(t *testing.T) {
	ctx := context.Background()
	userRepo, trainer, client := trainerFixture()
	client.TrainerID = &trainer.ID

	mediaRepo := &fakeMediaRepo{uploads: []domain.MediaUpload{
		{ID: primitive.NewObjectID(), ClientID: client.ID, TrainerID: trainer.ID, S3ObjectKey: "photos/abc/one.jpeg"},
	}}
	svc := service.NewTrainerService(userRepo, newFakePlanRepo(), &fakeSessionRepo{}, &fakeMetricRepo{}, mediaRepo, &fakeFileStorage{})

	photos, err := svc.GetClientPhotos(ctx, trainer.ID, client.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Contains(t, photos[0].DownloadURL, "photos/abc/one.jpeg")
}
