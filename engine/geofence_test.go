// engine/geofence_test.go
package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/doorward-io/doorward/engine"
	"github.com/doorward-io/doorward/model"
)

func TestGeofenceValidator(t *testing.T) {
	validator := engine.NewGeofenceValidator()
	area := model.GeoAuthorizedArea{
		Name:         "office",
		Latitude:     52.5200,
		Longitude:    13.4050,
		RadiusMeters: 150,
	}

	t.Run("MissingLocation_HardRejected", func(t *testing.T) {
		decision := validator.WithinArea(nil, area)

		assert.False(t, decision.OK)
		assert.Equal(t, model.ReasonLocationMissing, decision.Reason)
	})

	t.Run("AtCenter_Allowed", func(t *testing.T) {
		decision := validator.WithinArea(&model.LocationSample{
			Latitude:  52.5200,
			Longitude: 13.4050,
		}, area)

		assert.True(t, decision.OK)
		assert.Equal(t, model.ReasonWithinAuthorizedArea, decision.Reason)
		assert.InDelta(t, 0, decision.DistanceMeters, 0.1)
	})

	t.Run("InsideRadius_Allowed", func(t *testing.T) {
		// Roughly 75m north of center.
		decision := validator.WithinArea(&model.LocationSample{
			Latitude:  52.52067,
			Longitude: 13.4050,
		}, area)

		assert.True(t, decision.OK)
		assert.Less(t, decision.DistanceMeters, area.RadiusMeters)
	})

	t.Run("OutsideRadius_Rejected", func(t *testing.T) {
		// Roughly 340m east of center.
		decision := validator.WithinArea(&model.LocationSample{
			Latitude:  52.5200,
			Longitude: 13.4100,
		}, area)

		assert.False(t, decision.OK)
		assert.Equal(t, model.ReasonOutsideAuthorizedArea, decision.Reason)
		assert.Greater(t, decision.DistanceMeters, area.RadiusMeters)
	})

	t.Run("AccuracyNeverWidensTheRadius", func(t *testing.T) {
		decision := validator.WithinArea(&model.LocationSample{
			Latitude:       52.5200,
			Longitude:      13.4100,
			AccuracyMeters: 500,
		}, area)

		assert.False(t, decision.OK)
	})
}
