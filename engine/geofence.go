// engine/geofence.go
package engine

import (
	"math"

	"github.com/doorward-io/doorward/model"
)

const earthRadiusMeters = 6371000.0

// GeofenceDecision is the outcome of the location check.
type GeofenceDecision struct {
	OK             bool
	Reason         string
	DistanceMeters float64
}

// GeofenceValidator checks a caller-reported location against the configured
// authorized area. A missing sample is a hard rejection — client-side
// acquisition failure must surface as a denial, never a silent pass. The
// reported accuracy is deliberately not used to relax the boundary: a
// low-accuracy or spoofed sample must not widen the radius.
type GeofenceValidator struct{}

func NewGeofenceValidator() *GeofenceValidator {
	return &GeofenceValidator{}
}

func (v *GeofenceValidator) WithinArea(location *model.LocationSample, area model.GeoAuthorizedArea) GeofenceDecision {
	if location == nil {
		return GeofenceDecision{OK: false, Reason: model.ReasonLocationMissing}
	}

	distance := haversineMeters(location.Latitude, location.Longitude, area.Latitude, area.Longitude)
	if distance > area.RadiusMeters {
		return GeofenceDecision{OK: false, Reason: model.ReasonOutsideAuthorizedArea, DistanceMeters: distance}
	}
	return GeofenceDecision{OK: true, Reason: model.ReasonWithinAuthorizedArea, DistanceMeters: distance}
}

// haversineMeters computes the great-circle distance between two coordinates.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
