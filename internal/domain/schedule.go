package domain

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WeekOfMonth returns the 1-based week-of-month bucket for a date:
// ceil(day_of_month / 7), always in 1..5.
func WeekOfMonth(date time.Time) int {
	return (date.Day() + 6) / 7
}

// ExpandPlanSessions converts a plan's recurrence declaration into the concrete
// list of unsaved PlanSession rows, one per matched calendar day.
//
// Weekly and monthly variants walk every day from StartDate to EndDate
// inclusive and emit a session for each day the payload maps to a template, in
// ascending date order. The custom variant ignores the day walk entirely and
// emits the explicit entries in list order, whether or not they fall inside
// the plan's range. An inverted range, an unknown schedule type, or a payload
// with no matching days all produce an empty slice; expansion never fails.
//
// Every emitted session starts in SessionScheduled status. Expansion does not
// deduplicate against previously generated rows: callers regenerating a plan
// must delete its existing sessions first.
func ExpandPlanSessions(plan *WorkoutPlan) []PlanSession {
	var sessions []PlanSession

	switch plan.Schedule.Type {
	case ScheduleWeekly:
		for day := startOfDayUTC(plan.StartDate); !day.After(startOfDayUTC(plan.EndDate)); day = day.AddDate(0, 0, 1) {
			weekday := day.Weekday().String()
			templateID, ok := plan.Schedule.Weekly[weekday]
			if !ok || templateID == primitive.NilObjectID {
				continue
			}
			sessions = append(sessions, newPlanSession(plan, templateID, day, nil, ""))
		}

	case ScheduleMonthly:
		for day := startOfDayUTC(plan.StartDate); !day.After(startOfDayUTC(plan.EndDate)); day = day.AddDate(0, 0, 1) {
			week := WeekOfMonth(day)
			days, ok := plan.Schedule.Monthly[strconv.Itoa(week)]
			if !ok {
				continue
			}
			templateID, ok := days[day.Weekday().String()]
			if !ok || templateID == primitive.NilObjectID {
				continue
			}
			weekNumber := week
			sessions = append(sessions, newPlanSession(plan, templateID, day, &weekNumber, ""))
		}

	case ScheduleCustom:
		for _, entry := range plan.Schedule.Custom {
			if entry.TemplateID == primitive.NilObjectID {
				continue
			}
			date, err := time.ParseInLocation(DateLayout, entry.Date, time.UTC)
			if err != nil {
				continue
			}
			sessions = append(sessions, newPlanSession(plan, entry.TemplateID, date, nil, entry.Label))
		}
	}

	return sessions
}

func newPlanSession(plan *WorkoutPlan, templateID primitive.ObjectID, date time.Time, weekNumber *int, notes string) PlanSession {
	return PlanSession{
		PlanID:        plan.ID,
		TemplateID:    &templateID,
		ClientID:      plan.ClientID,
		TrainerID:     plan.TrainerID,
		ScheduledDate: date,
		DayOfWeek:     date.Weekday().String(),
		WeekNumber:    weekNumber,
		Status:        SessionScheduled,
		Notes:         notes,
	}
}

// startOfDayUTC truncates a timestamp to UTC midnight so the day walk is
// insensitive to how the plan's dates were parsed.
func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
