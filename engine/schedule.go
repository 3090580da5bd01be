// engine/schedule.go
package engine

import (
	"time"

	"go.uber.org/zap"

	logger "github.com/doorward-io/doorward/logging"
	"github.com/doorward-io/doorward/model"
	helper_util "github.com/doorward-io/doorward/util/helper"
)

// ScheduleDecision is the outcome of the time-of-day policy check.
type ScheduleDecision struct {
	OK          bool
	Reason      string
	RuleApplied string // permission id or day class that decided the outcome
}

// ScheduleResolver evaluates whether a timestamp is within access policy for
// a user. Special permissions are an override, not a merge: if any active
// permission covers the request date, the global schedule is ignored entirely
// for that date and only the permission time windows decide. A permission
// with all four bounds open is a permanent blanket override — always
// compliant, easy to misconfigure by accident.
//
// The resolver is invoked only for role "user"; supervisors and admins are
// exempt upstream.
type ScheduleResolver struct{}

func NewScheduleResolver() *ScheduleResolver {
	return &ScheduleResolver{}
}

func (r *ScheduleResolver) WithinPolicy(ts time.Time, schedule model.GlobalSchedule, permissions []model.SpecialPermission) ScheduleDecision {
	active := r.activeForDate(ts, permissions)

	if len(active) > 0 {
		for _, perm := range active {
			ok, err := r.withinTimeBounds(ts, perm)
			if err != nil {
				logger.Warn("Skipping permission with malformed time bounds",
					zap.String("permissionID", perm.ID),
					zap.Error(err))
				continue
			}
			if ok {
				return ScheduleDecision{OK: true, Reason: model.ReasonPermissionOverride, RuleApplied: perm.ID}
			}
		}
		return ScheduleDecision{OK: false, Reason: model.ReasonOutsidePermissionWindow}
	}

	return r.withinGlobalSchedule(ts, schedule)
}

// activeForDate selects the permissions that are switched on and whose date
// range covers the timestamp's date. An open bound is unbounded on that side.
func (r *ScheduleResolver) activeForDate(ts time.Time, permissions []model.SpecialPermission) []model.SpecialPermission {
	date := helper_util.DateOnly(ts)

	var active []model.SpecialPermission
	for _, perm := range permissions {
		if !perm.Active {
			continue
		}
		if perm.DateFrom != nil {
			from, err := helper_util.ParseDate(*perm.DateFrom)
			if err != nil {
				logger.Warn("Skipping permission with malformed date_from",
					zap.String("permissionID", perm.ID),
					zap.Error(err))
				continue
			}
			if date.Before(from) {
				continue
			}
		}
		if perm.DateTo != nil {
			to, err := helper_util.ParseDate(*perm.DateTo)
			if err != nil {
				logger.Warn("Skipping permission with malformed date_to",
					zap.String("permissionID", perm.ID),
					zap.Error(err))
				continue
			}
			if date.After(to) {
				continue
			}
		}
		active = append(active, perm)
	}
	return active
}

func (r *ScheduleResolver) withinTimeBounds(ts time.Time, perm model.SpecialPermission) (bool, error) {
	tod := helper_util.MinutesOfDay(ts)

	if perm.TimeFrom != nil {
		from, err := helper_util.ParseClockMinutes(*perm.TimeFrom)
		if err != nil {
			return false, err
		}
		if tod < from {
			return false, nil
		}
	}
	if perm.TimeTo != nil {
		to, err := helper_util.ParseClockMinutes(*perm.TimeTo)
		if err != nil {
			return false, err
		}
		if tod > to {
			return false, nil
		}
	}
	return true, nil
}

// withinGlobalSchedule is the fallback when no permission covers the date.
// Malformed window bounds deny access rather than letting a config mistake
// leave the door open.
func (r *ScheduleResolver) withinGlobalSchedule(ts time.Time, schedule model.GlobalSchedule) ScheduleDecision {
	window := schedule.WindowFor(ts)
	rule := string(window.DayClass)
	if rule == "" {
		rule = string(model.DayClassFor(ts))
	}

	if !window.Enabled {
		return ScheduleDecision{OK: false, Reason: model.ReasonDayNotEnabled, RuleApplied: rule}
	}

	start, err := helper_util.ParseClockMinutes(window.StartTime)
	if err != nil {
		logger.Error("Global schedule has malformed start time",
			zap.String("dayClass", rule),
			zap.Error(err))
		return ScheduleDecision{OK: false, Reason: model.ReasonScheduleMisconfigured, RuleApplied: rule}
	}
	end, err := helper_util.ParseClockMinutes(window.EndTime)
	if err != nil {
		logger.Error("Global schedule has malformed end time",
			zap.String("dayClass", rule),
			zap.Error(err))
		return ScheduleDecision{OK: false, Reason: model.ReasonScheduleMisconfigured, RuleApplied: rule}
	}

	tod := helper_util.MinutesOfDay(ts)
	if tod < start || tod > end {
		return ScheduleDecision{OK: false, Reason: model.ReasonOutsideGlobalSchedule, RuleApplied: rule}
	}
	return ScheduleDecision{OK: true, Reason: model.ReasonWithinGlobalSchedule, RuleApplied: rule}
}
