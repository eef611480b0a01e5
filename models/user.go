package models

import "strconv"

// User represents a chat participant as reported by the platform.
type User struct {
	ID   int64  `json:"id"`   // Platform user ID.
	Name string `json:"name"` // Username or display name, may be empty.
}

// DisplayName returns the user's name, falling back to "User_<id>" when the platform reported none.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return "User_" + strconv.FormatInt(u.ID, 10)
}
