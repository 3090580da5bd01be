// model/geo.go
package model

import "time"

// GeoAuthorizedArea is the configured circular region inside which ordinary
// users may open the door. Owned by configuration, read-only to the engine.
type GeoAuthorizedArea struct {
	Name         string  `json:"name"`
	Latitude     float64 `json:"lat"`
	Longitude    float64 `json:"lon"`
	RadiusMeters float64 `json:"radius_m"`
}

// LocationSample is the caller-reported position attached to a request.
// It is mandatory for role "user" and absent for supervisors and admins.
// AccuracyMeters and AttemptNumber are recorded for audit context only and
// never relax the geofence boundary.
type LocationSample struct {
	Latitude       float64   `json:"lat" binding:"min=-90,max=90"`
	Longitude      float64   `json:"lon" binding:"min=-180,max=180"`
	AccuracyMeters float64   `json:"accuracy_m"`
	CapturedAt     time.Time `json:"captured_at,omitempty"`
	AttemptNumber  int       `json:"attempt_number,omitempty"`
}
