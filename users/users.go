package users

import "time"

// User is the portal identity record as the API serves it. The same shape is
// cached in durable storage between sessions.
type User struct {
	ID             string    `json:"id"`                       // Unique identifier for the user
	Username       string    `json:"username"`                 // Unique login/display name
	Email          string    `json:"email"`                    // User's email address
	FullName       string    `json:"fullName,omitempty"`       // Display name shown on bylines
	Role           Role      `json:"role"`                     // reader, writer, or admin
	ProfilePicture string    `json:"profilePicture,omitempty"` // URL of the profile picture
	CreatedAt      time.Time `json:"createdAt,omitempty"`      // When the user registered
}

// DisplayName returns the byline name: full name when set, username
// otherwise.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
