package models

// Role is the chat membership status of the user who triggered an event.
// It is resolved by the collaborator before the event reaches the engine.
type Role int

const (
	RoleMember Role = iota
	RoleAdministrator
	RoleCreator
)

// String returns the platform name of the role.
func (r Role) String() string {
	switch r {
	case RoleAdministrator:
		return "administrator"
	case RoleCreator:
		return "creator"
	default:
		return "member"
	}
}

// ParseRole maps a platform status string to a [Role]; unknown values map to [RoleMember].
func ParseRole(status string) Role {
	switch status {
	case "administrator":
		return RoleAdministrator
	case "creator":
		return RoleCreator
	default:
		return RoleMember
	}
}

// IsAdmin reports whether the role may run moderation commands.
func (r Role) IsAdmin() bool {
	return r == RoleAdministrator || r == RoleCreator
}

// MarshalText implements [encoding.TextMarshaler].
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}
