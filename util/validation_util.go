// util/validation_util.go

package util

import (
	"fmt"

	"github.com/doorward-io/doorward/model"
	helper_util "github.com/doorward-io/doorward/util/helper"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidatePermission(perm model.SpecialPermission) error {
	if perm.SubjectUserID == "" {
		return fmt.Errorf("permission subject user id cannot be empty")
	}
	if err := validateDateBound(perm.DateFrom, "date_from"); err != nil {
		return err
	}
	if err := validateDateBound(perm.DateTo, "date_to"); err != nil {
		return err
	}
	if err := validateTimeBound(perm.TimeFrom, "time_from"); err != nil {
		return err
	}
	if err := validateTimeBound(perm.TimeTo, "time_to"); err != nil {
		return err
	}
	if perm.DateFrom != nil && perm.DateTo != nil {
		from, _ := helper_util.ParseDate(*perm.DateFrom)
		to, _ := helper_util.ParseDate(*perm.DateTo)
		if to.Before(from) {
			return fmt.Errorf("permission date_to must not precede date_from")
		}
	}
	if perm.TimeFrom != nil && perm.TimeTo != nil {
		from, _ := helper_util.ParseClockMinutes(*perm.TimeFrom)
		to, _ := helper_util.ParseClockMinutes(*perm.TimeTo)
		if to < from {
			return fmt.Errorf("permission time_to must not precede time_from")
		}
	}
	return nil
}

func (v *ValidationUtil) ValidateGlobalSchedule(schedule model.GlobalSchedule) error {
	windows := []model.ScheduleWindow{schedule.Weekday, schedule.Saturday, schedule.Sunday}
	for _, window := range windows {
		if !window.Enabled {
			continue
		}
		start, err := helper_util.ParseClockMinutes(window.StartTime)
		if err != nil {
			return fmt.Errorf("schedule window %s: %w", window.DayClass, err)
		}
		end, err := helper_util.ParseClockMinutes(window.EndTime)
		if err != nil {
			return fmt.Errorf("schedule window %s: %w", window.DayClass, err)
		}
		if end < start {
			return fmt.Errorf("schedule window %s: end time precedes start time", window.DayClass)
		}
	}
	return nil
}

func (v *ValidationUtil) ValidateLocation(location *model.LocationSample) error {
	if location == nil {
		return nil
	}
	if location.Latitude < -90 || location.Latitude > 90 {
		return fmt.Errorf("location latitude out of range")
	}
	if location.Longitude < -180 || location.Longitude > 180 {
		return fmt.Errorf("location longitude out of range")
	}
	if location.AccuracyMeters < 0 {
		return fmt.Errorf("location accuracy cannot be negative")
	}
	return nil
}

func validateDateBound(bound *string, name string) error {
	if bound == nil {
		return nil
	}
	if _, err := helper_util.ParseDate(*bound); err != nil {
		return fmt.Errorf("permission %s: %w", name, err)
	}
	return nil
}

func validateTimeBound(bound *string, name string) error {
	if bound == nil {
		return nil
	}
	if _, err := helper_util.ParseClockMinutes(*bound); err != nil {
		return fmt.Errorf("permission %s: %w", name, err)
	}
	return nil
}
