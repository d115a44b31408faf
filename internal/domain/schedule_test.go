package domain_test

import (
	"testing"
	"time"

	"boltfit/coaching-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weeklyPlan(start, end time.Time, weekly domain.WeekdayMap) *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		ID:        primitive.NewObjectID(),
		TrainerID: primitive.NewObjectID(),
		ClientID:  primitive.NewObjectID(),
		Name:      "Test Plan",
		StartDate: start,
		EndDate:   end,
		Schedule:  domain.Schedule{Type: domain.ScheduleWeekly, Weekly: weekly},
	}
}

func TestExpandPlanSessions_WeeklyRangeCoverage(t *testing.T) {
	t1 := primitive.NewObjectID()
	t2 := primitive.NewObjectID()
	// 2024-01-01 is a Monday.
	plan := weeklyPlan(date(2024, time.January, 1), date(2024, time.January, 14), domain.WeekdayMap{
		"Monday":    t1,
		"Wednesday": t2,
	})

	sessions := domain.ExpandPlanSessions(plan)
	require.Len(t, sessions, 4)

	expected := []struct {
		day        time.Time
		weekday    string
		templateID primitive.ObjectID
	}{
		{date(2024, time.January, 1), "Monday", t1},
		{date(2024, time.January, 3), "Wednesday", t2},
		{date(2024, time.January, 8), "Monday", t1},
		{date(2024, time.January, 10), "Wednesday", t2},
	}
	for i, want := range expected {
		assert.Equal(t, want.day, sessions[i].ScheduledDate)
		assert.Equal(t, want.weekday, sessions[i].DayOfWeek)
		require.NotNil(t, sessions[i].TemplateID)
		assert.Equal(t, want.templateID, *sessions[i].TemplateID)
		assert.Equal(t, domain.SessionScheduled, sessions[i].Status)
		assert.Nil(t, sessions[i].WeekNumber)
		assert.Equal(t, plan.ID, sessions[i].PlanID)
		assert.Equal(t, plan.ClientID, sessions[i].ClientID)
	}
}

func TestExpandPlanSessions_EmptyRange(t *testing.T) {
	// End before start: the day walk never runs, no error is raised.
	plan := weeklyPlan(date(2024, time.March, 10), date(2024, time.March, 1), domain.WeekdayMap{
		"Monday": primitive.NewObjectID(), "Tuesday": primitive.NewObjectID(),
		"Wednesday": primitive.NewObjectID(), "Thursday": primitive.NewObjectID(),
		"Friday": primitive.NewObjectID(), "Saturday": primitive.NewObjectID(),
		"Sunday": primitive.NewObjectID(),
	})

	assert.Empty(t, domain.ExpandPlanSessions(plan))
}

func TestExpandPlanSessions_MonthlyWeekBucketing(t *testing.T) {
	t1 := primitive.NewObjectID()
	plan := &domain.WorkoutPlan{
		ID:        primitive.NewObjectID(),
		StartDate: date(2024, time.March, 1),
		EndDate:   date(2024, time.March, 31),
		Schedule: domain.Schedule{
			Type:    domain.ScheduleMonthly,
			Monthly: map[string]domain.WeekdayMap{"1": {"Friday": t1}},
		},
	}

	sessions := domain.ExpandPlanSessions(plan)
	// 2024-03-01 is a Friday in week bucket 1. 2024-03-08 is also a Friday
	// but falls in bucket 2, so it must be excluded.
	require.Len(t, sessions, 1)
	assert.Equal(t, date(2024, time.March, 1), sessions[0].ScheduledDate)
	assert.Equal(t, "Friday", sessions[0].DayOfWeek)
	require.NotNil(t, sessions[0].WeekNumber)
	assert.Equal(t, 1, *sessions[0].WeekNumber)
}

func TestExpandPlanSessions_MonthlyAllBuckets(t *testing.T) {
	t1 := primitive.NewObjectID()
	monthly := map[string]domain.WeekdayMap{}
	for _, week := range []string{"1", "2", "3", "4", "5"} {
		monthly[week] = domain.WeekdayMap{"Sunday": t1}
	}
	plan := &domain.WorkoutPlan{
		ID:        primitive.NewObjectID(),
		StartDate: date(2024, time.December, 1),
		EndDate:   date(2024, time.December, 31),
		Schedule:  domain.Schedule{Type: domain.ScheduleMonthly, Monthly: monthly},
	}

	sessions := domain.ExpandPlanSessions(plan)
	// December 2024 has five Sundays: 1, 8, 15, 22, 29.
	require.Len(t, sessions, 5)
	for i, wantDay := range []int{1, 8, 15, 22, 29} {
		assert.Equal(t, date(2024, time.December, wantDay), sessions[i].ScheduledDate)
		require.NotNil(t, sessions[i].WeekNumber)
		assert.Equal(t, i+1, *sessions[i].WeekNumber)
	}
}

func TestExpandPlanSessions_CustomEntriesVerbatim(t *testing.T) {
	tmpl := primitive.NewObjectID()
	plan := &domain.WorkoutPlan{
		ID: primitive.NewObjectID(),
		// Range is entirely outside the entry's date on purpose: custom
		// entries are not range-checked.
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 31),
		Schedule: domain.Schedule{
			Type: domain.ScheduleCustom,
			Custom: []domain.CustomEntry{
				{Date: "2024-05-05", TemplateID: tmpl, Label: "Cheat day"},
			},
		},
	}

	sessions := domain.ExpandPlanSessions(plan)
	require.Len(t, sessions, 1)
	assert.Equal(t, date(2024, time.May, 5), sessions[0].ScheduledDate)
	require.NotNil(t, sessions[0].TemplateID)
	assert.Equal(t, tmpl, *sessions[0].TemplateID)
	assert.Equal(t, "Cheat day", sessions[0].Notes)
	assert.Equal(t, "Sunday", sessions[0].DayOfWeek)
	assert.Nil(t, sessions[0].WeekNumber)
}

func TestExpandPlanSessions_CustomSkipsIncompleteEntries(t *testing.T) {
	tmpl := primitive.NewObjectID()
	plan := &domain.WorkoutPlan{
		ID:        primitive.NewObjectID(),
		StartDate: date(2024, time.May, 1),
		EndDate:   date(2024, time.May, 31),
		Schedule: domain.Schedule{
			Type: domain.ScheduleCustom,
			Custom: []domain.CustomEntry{
				{Date: "2024-05-02", TemplateID: primitive.NilObjectID}, // no template
				{Date: "not-a-date", TemplateID: tmpl},                  // unparsable date
				{Date: "2024-05-09", TemplateID: tmpl, Label: "Deload"},
			},
		},
	}

	sessions := domain.ExpandPlanSessions(plan)
	require.Len(t, sessions, 1)
	assert.Equal(t, date(2024, time.May, 9), sessions[0].ScheduledDate)
	assert.Equal(t, "Deload", sessions[0].Notes)
}

func TestExpandPlanSessions_CustomPreservesEntryOrder(t *testing.T) {
	tmpl := primitive.NewObjectID()
	plan := &domain.WorkoutPlan{
		ID:        primitive.NewObjectID(),
		StartDate: date(2024, time.May, 1),
		EndDate:   date(2024, time.May, 31),
		Schedule: domain.Schedule{
			Type: domain.ScheduleCustom,
			Custom: []domain.CustomEntry{
				{Date: "2024-05-20", TemplateID: tmpl},
				{Date: "2024-05-05", TemplateID: tmpl},
			},
		},
	}

	sessions := domain.ExpandPlanSessions(plan)
	require.Len(t, sessions, 2)
	assert.Equal(t, date(2024, time.May, 20), sessions[0].ScheduledDate)
	assert.Equal(t, date(2024, time.May, 5), sessions[1].ScheduledDate)
}

func TestExpandPlanSessions_UnmappedDaysExcluded(t *testing.T) {
	// Only Monday is mapped; a two-week range yields exactly two sessions.
	plan := weeklyPlan(date(2024, time.January, 1), date(2024, time.January, 14), domain.WeekdayMap{
		"Monday": primitive.NewObjectID(),
	})

	sessions := domain.ExpandPlanSessions(plan)
	require.Len(t, sessions, 2)
	for _, session := range sessions {
		assert.Equal(t, "Monday", session.DayOfWeek)
	}
}

func TestExpandPlanSessions_EmptyPayloadDegradesSilently(t *testing.T) {
	plan := weeklyPlan(date(2024, time.January, 1), date(2024, time.January, 31), nil)
	assert.Empty(t, domain.ExpandPlanSessions(plan))

	plan.Schedule = domain.Schedule{Type: domain.ScheduleMonthly}
	assert.Empty(t, domain.ExpandPlanSessions(plan))

	plan.Schedule = domain.Schedule{Type: domain.ScheduleCustom}
	assert.Empty(t, domain.ExpandPlanSessions(plan))
}

func TestExpandPlanSessions_UnknownTypeEmitsNothing(t *testing.T) {
	plan := weeklyPlan(date(2024, time.January, 1), date(2024, time.January, 31), domain.WeekdayMap{
		"Monday": primitive.NewObjectID(),
	})
	plan.Schedule.Type = "biweekly"

	assert.Empty(t, domain.ExpandPlanSessions(plan))
}

func TestWeekOfMonth(t *testing.T) {
	tests := []struct {
		day  int
		want int
	}{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {21, 3}, {22, 4}, {28, 4}, {29, 5}, {31, 5},
	}
	for _, tt := range tests {
		got := domain.WeekOfMonth(date(2024, time.January, tt.day))
		assert.Equal(t, tt.want, got, "day %d", tt.day)
	}
}
