package models

import "strings"

// Role is a user's access level
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
	RoleEventOwner Role = "EVENT_OWNER"
	RoleAttendee   Role = "ATTENDEE"
)

// roleRank orders roles from least to most privileged. Every authorization
// check compares ranks through AtLeast.
var roleRank = map[Role]int{
	RoleAdmin:      4,
	RoleStaff:      3,
	RoleEventOwner: 2,
	RoleAttendee:   1,
}

// AllRoles lists the defined roles, most privileged first.
var AllRoles = []Role{RoleAdmin, RoleStaff, RoleEventOwner, RoleAttendee}

// Rank returns the role's position in the hierarchy, 0 for unknown roles.
func (r Role) Rank() int {
	return roleRank[r]
}

// AtLeast reports whether r grants every permission of required.
func (r Role) AtLeast(required Role) bool {
	rank := r.Rank()
	return rank > 0 && rank >= required.Rank()
}

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// DisplayName returns a human-readable label.
func (r Role) DisplayName() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleStaff:
		return "Staff Member"
	case RoleEventOwner:
		return "Event Owner"
	case RoleAttendee:
		return "Attendee"
	default:
		return "Unknown"
	}
}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}

// CanManageEvent is the single rule for deleting an event and viewing or
// exporting its attendees: admins and staff manage every event, anyone else
// only the events they own.
func CanManageEvent(user *User, event *Event) bool {
	if user == nil || event == nil {
		return false
	}
	if user.Role.AtLeast(RoleStaff) {
		return true
	}
	return event.OwnerID == user.ID
}
