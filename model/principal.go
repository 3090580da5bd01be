// model/principal.go
package model

// Role is the resolved role of an authenticated caller.
type Role string

const (
	RoleUser       Role = "user"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSupervisor, RoleAdmin:
		return true
	}
	return false
}

// ExemptFromPolicyChecks reports whether the role skips the schedule and
// geofence gates. Supervisors and admins are checked for trust only.
func (r Role) ExemptFromPolicyChecks() bool {
	return r == RoleSupervisor || r == RoleAdmin
}

// Principal is the authenticated actor making a request. All flags arrive
// already resolved by the upstream auth gateway; the engine only reads them.
// DeviceTrusted is long-lived and survives logout, SessionValid is not.
type Principal struct {
	UserID        string `json:"user_id"`
	Role          Role   `json:"role"`
	DeviceTrusted bool   `json:"device_trusted"`
	SessionValid  bool   `json:"session_valid"`

	// AssignedUserIDs is populated for supervisors only: the set of users
	// whose special permissions they may manage.
	AssignedUserIDs []string `json:"assigned_user_ids,omitempty"`
}

// Manages reports whether the principal may administer special permissions
// for the given subject user.
func (p Principal) Manages(subjectUserID string) bool {
	if p.Role == RoleAdmin {
		return true
	}
	if p.Role != RoleSupervisor {
		return false
	}
	for _, id := range p.AssignedUserIDs {
		if id == subjectUserID {
			return true
		}
	}
	return false
}
