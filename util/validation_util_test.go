// util/validation_util_test.go
package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doorward-io/doorward/model"
	"github.com/doorward-io/doorward/util"
)

func strPtr(s string) *string {
	return &s
}

func TestValidatePermission(t *testing.T) {
	v := util.NewValidationUtil()

	t.Run("AllBoundsOpen_Valid", func(t *testing.T) {
		assert.NoError(t, v.ValidatePermission(model.SpecialPermission{SubjectUserID: "user-1", Active: true}))
	})

	t.Run("MissingSubject_Invalid", func(t *testing.T) {
		assert.Error(t, v.ValidatePermission(model.SpecialPermission{}))
	})

	t.Run("MalformedDateBound_Invalid", func(t *testing.T) {
		assert.Error(t, v.ValidatePermission(model.SpecialPermission{
			SubjectUserID: "user-1",
			DateFrom:      strPtr("16-06-2024"),
		}))
	})

	t.Run("MalformedTimeBound_Invalid", func(t *testing.T) {
		assert.Error(t, v.ValidatePermission(model.SpecialPermission{
			SubjectUserID: "user-1",
			TimeFrom:      strPtr("25:99"),
		}))
	})

	t.Run("InvertedDateRange_Invalid", func(t *testing.T) {
		assert.Error(t, v.ValidatePermission(model.SpecialPermission{
			SubjectUserID: "user-1",
			DateFrom:      strPtr("2024-06-20"),
			DateTo:        strPtr("2024-06-10"),
		}))
	})

	t.Run("InvertedTimeRange_Invalid", func(t *testing.T) {
		assert.Error(t, v.ValidatePermission(model.SpecialPermission{
			SubjectUserID: "user-1",
			TimeFrom:      strPtr("18:00"),
			TimeTo:        strPtr("09:00"),
		}))
	})
}

func TestValidateGlobalSchedule(t *testing.T) {
	v := util.NewValidationUtil()

	valid := model.GlobalSchedule{
		Weekday:  model.ScheduleWindow{DayClass: model.DayClassWeekday, Enabled: true, StartTime: "06:00", EndTime: "22:00"},
		Saturday: model.ScheduleWindow{DayClass: model.DayClassSaturday, Enabled: true, StartTime: "08:00", EndTime: "18:00"},
		Sunday:   model.ScheduleWindow{DayClass: model.DayClassSunday, Enabled: false},
	}

	t.Run("WellFormed_Valid", func(t *testing.T) {
		assert.NoError(t, v.ValidateGlobalSchedule(valid))
	})

	t.Run("DisabledWindowBoundsNotChecked", func(t *testing.T) {
		schedule := valid
		schedule.Sunday.StartTime = "garbage"
		assert.NoError(t, v.ValidateGlobalSchedule(schedule))
	})

	t.Run("EnabledWindowWithMalformedBound_Invalid", func(t *testing.T) {
		schedule := valid
		schedule.Weekday.StartTime = "garbage"
		assert.Error(t, v.ValidateGlobalSchedule(schedule))
	})

	t.Run("EnabledWindowWithInvertedBounds_Invalid", func(t *testing.T) {
		schedule := valid
		schedule.Saturday.StartTime = "18:00"
		schedule.Saturday.EndTime = "08:00"
		assert.Error(t, v.ValidateGlobalSchedule(schedule))
	})
}

func TestValidateLocation(t *testing.T) {
	v := util.NewValidationUtil()

	t.Run("NilLocation_Valid", func(t *testing.T) {
		// Absence is a policy question, not a validation one.
		assert.NoError(t, v.ValidateLocation(nil))
	})

	t.Run("InRange_Valid", func(t *testing.T) {
		assert.NoError(t, v.ValidateLocation(&model.LocationSample{Latitude: 52.52, Longitude: 13.405, AccuracyMeters: 15}))
	})

	t.Run("LatitudeOutOfRange_Invalid", func(t *testing.T) {
		assert.Error(t, v.ValidateLocation(&model.LocationSample{Latitude: 91}))
	})

	t.Run("NegativeAccuracy_Invalid", func(t *testing.T) {
		assert.Error(t, v.ValidateLocation(&model.LocationSample{AccuracyMeters: -1}))
	})
}
