package domain

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleType tags the recurrence variant carried by a plan.
type ScheduleType string

const (
	ScheduleWeekly  ScheduleType = "weekly"
	ScheduleMonthly ScheduleType = "monthly"
	ScheduleCustom  ScheduleType = "custom"
)

// DateLayout is the civil-date format used throughout the schedule domain.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDateRange = errors.New("plan start date must not be after end date")
	ErrInvalidSchedule  = errors.New("invalid schedule payload")
)

// WorkoutPlan declares a recurrence rule plus a validity date range for one client.
// The plan itself holds no concrete dates beyond the range; PlanSession rows are
// generated from it by ExpandPlanSessions.
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	StartDate   time.Time          `bson:"startDate" json:"startDate"` // UTC midnight, inclusive
	EndDate     time.Time          `bson:"endDate" json:"endDate"`     // UTC midnight, inclusive
	Schedule    Schedule           `bson:"schedule" json:"schedule"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WeekdayMap maps English long weekday names ("Monday".."Sunday") to the
// template to perform on that weekday.
type WeekdayMap map[string]primitive.ObjectID

// CustomEntry is one explicit session in a custom schedule.
type CustomEntry struct {
	Date       string             `bson:"date" json:"date"` // YYYY-MM-DD
	TemplateID primitive.ObjectID `bson:"templateId" json:"templateId"`
	Label      string             `bson:"label,omitempty" json:"label,omitempty"`
}

// Schedule is a tagged union: exactly one variant field is populated,
// selected by Type. Week-of-month keys in Monthly are "1".."5"
// (ceil(day_of_month / 7) buckets); Mongo map keys must be strings.
type Schedule struct {
	Type    ScheduleType          `bson:"type" json:"type"`
	Weekly  WeekdayMap            `bson:"weekly,omitempty" json:"weekly,omitempty"`
	Monthly map[string]WeekdayMap `bson:"monthly,omitempty" json:"monthly,omitempty"`
	Custom  []CustomEntry         `bson:"custom,omitempty" json:"custom,omitempty"`
}

var validWeekdays = map[string]bool{
	"Monday": true, "Tuesday": true, "Wednesday": true, "Thursday": true,
	"Friday": true, "Saturday": true, "Sunday": true,
}

// Validate rejects payloads whose shape does not match the declared type.
// Plans are only persisted after passing this, so the expander can assume a
// well-formed (possibly empty) payload and never needs to error.
func (s Schedule) Validate() error {
	switch s.Type {
	case ScheduleWeekly:
		if s.Monthly != nil || s.Custom != nil {
			return fmt.Errorf("%w: weekly schedule must not carry monthly or custom data", ErrInvalidSchedule)
		}
		return validateWeekdayMap(s.Weekly)
	case ScheduleMonthly:
		if s.Weekly != nil || s.Custom != nil {
			return fmt.Errorf("%w: monthly schedule must not carry weekly or custom data", ErrInvalidSchedule)
		}
		for week, days := range s.Monthly {
			n, err := strconv.Atoi(week)
			if err != nil || n < 1 || n > 5 {
				return fmt.Errorf("%w: week-of-month key %q must be \"1\"..\"5\"", ErrInvalidSchedule, week)
			}
			if err := validateWeekdayMap(days); err != nil {
				return err
			}
		}
		return nil
	case ScheduleCustom:
		if s.Weekly != nil || s.Monthly != nil {
			return fmt.Errorf("%w: custom schedule must not carry weekly or monthly data", ErrInvalidSchedule)
		}
		for i, entry := range s.Custom {
			if _, err := time.Parse(DateLayout, entry.Date); err != nil {
				return fmt.Errorf("%w: entry %d has invalid date %q", ErrInvalidSchedule, i, entry.Date)
			}
			if entry.TemplateID == primitive.NilObjectID {
				return fmt.Errorf("%w: entry %d is missing a template", ErrInvalidSchedule, i)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown schedule type %q", ErrInvalidSchedule, s.Type)
	}
}

func validateWeekdayMap(m WeekdayMap) error {
	for day, templateID := range m {
		if !validWeekdays[day] {
			return fmt.Errorf("%w: unknown weekday %q", ErrInvalidSchedule, day)
		}
		if templateID == primitive.NilObjectID {
			return fmt.Errorf("%w: weekday %q is missing a template", ErrInvalidSchedule, day)
		}
	}
	return nil
}

// Validate checks the plan-level invariants: a well-formed date range and a
// schedule payload matching its declared type.
func (p *WorkoutPlan) Validate() error {
	if p.EndDate.Before(p.StartDate) {
		return ErrInvalidDateRange
	}
	return p.Schedule.Validate()
}
