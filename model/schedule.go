// model/schedule.go
package model

import "time"

// DayClass buckets a calendar day for the global schedule.
type DayClass string

const (
	DayClassWeekday  DayClass = "weekday"
	DayClassSaturday DayClass = "saturday"
	DayClassSunday   DayClass = "sunday"
)

// DayClassFor maps a timestamp's weekday to its schedule bucket.
func DayClassFor(t time.Time) DayClass {
	switch t.Weekday() {
	case time.Saturday:
		return DayClassSaturday
	case time.Sunday:
		return DayClassSunday
	default:
		return DayClassWeekday
	}
}

// ScheduleWindow is one day-class entry of the global schedule. StartTime and
// EndTime are wall-clock values in "HH:MM" form.
type ScheduleWindow struct {
	DayClass  DayClass `json:"day_class"`
	Enabled   bool     `json:"enabled"`
	StartTime string   `json:"start_time"`
	EndTime   string   `json:"end_time"`
}

// GlobalSchedule is the weekly access calendar. It is owned by configuration,
// read-only to the engine, and replaceable only as a whole document.
type GlobalSchedule struct {
	Weekday  ScheduleWindow `json:"weekday"`
	Saturday ScheduleWindow `json:"saturday"`
	Sunday   ScheduleWindow `json:"sunday"`
}

// WindowFor returns the schedule window applying to the given timestamp.
func (g GlobalSchedule) WindowFor(t time.Time) ScheduleWindow {
	switch DayClassFor(t) {
	case DayClassSaturday:
		return g.Saturday
	case DayClassSunday:
		return g.Sunday
	default:
		return g.Weekday
	}
}

// SpecialPermission is a per-user override of the global schedule. A nil
// bound means "no restriction on that axis": a permission with all four
// bounds nil and Active=true is a permanent blanket override that grants
// access at any time on any date. Date bounds are "2006-01-02" strings, time
// bounds "HH:MM".
//
// Permissions never expire structurally; date bounds are evaluated at
// request time and Active is an explicit soft-disable switch independent of
// them.
type SpecialPermission struct {
	ID            string    `json:"id"`
	SubjectUserID string    `json:"subject_user_id"`
	DateFrom      *string   `json:"date_from,omitempty"`
	DateTo        *string   `json:"date_to,omitempty"`
	TimeFrom      *string   `json:"time_from,omitempty"`
	TimeTo        *string   `json:"time_to,omitempty"`
	Active        bool      `json:"active"`
	Note          string    `json:"note,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
