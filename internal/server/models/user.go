package models

import "time"

// User is the credential record stored in PostgreSQL. PasswordHash holds the
// bcrypt hash of the password; RefreshToken holds the server-side copy of the
// most recently issued refresh token ("" when logged out). UniversityName is
// populated by queries that join the universities table.
type User struct {
	ID              int64
	Name            string
	Email           string
	PasswordHash    string
	UniversityID    int64
	UniversityName  string
	ProfileImageURL string
	RefreshToken    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Summary is the public projection of a user returned by login and
// session-verification responses. It never carries credentials.
type Summary struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	University      string `json:"university"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Summary builds the public projection of u.
func (u *User) Summary() *Summary {
	return &Summary{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		University:      u.UniversityName,
		ProfileImageURL: u.ProfileImageURL,
	}
}
