// Package models holds the client-side DTOs exchanged with the backend API.
package models

// UserSummary is the public view of an account as returned by the backend.
type UserSummary struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	University      string `json:"university"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}
