// audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Record is one append-only audit entry: either the terminal decision of an
// access event or a configuration mutation made by the CRUD surface.
type Record struct {
	Timestamp      time.Time       `json:"timestamp"`
	Action         string          `json:"action"`
	ActorUserID    string          `json:"actor_user_id,omitempty"`
	SubjectUserID  string          `json:"subject_user_id,omitempty"`
	Role           string          `json:"role,omitempty"`
	EventID        string          `json:"event_id,omitempty"`
	State          string          `json:"state,omitempty"`
	Reasons        []string        `json:"reasons,omitempty"`
	Latitude       *float64        `json:"lat,omitempty"`
	Longitude      *float64        `json:"lon,omitempty"`
	AccuracyMeters *float64        `json:"accuracy_m,omitempty"`
	AttemptNumber  *int            `json:"attempt_number,omitempty"`
	ChangeDetails  json.RawMessage `json:"change_details,omitempty"`
}

// Audit action names.
const (
	ActionAccessDecision    = "access_decision"
	ActionPermissionCreated = "permission_created"
	ActionPermissionUpdated = "permission_updated"
	ActionPermissionDeleted = "permission_deleted"
	ActionScheduleReplaced  = "schedule_replaced"
)
