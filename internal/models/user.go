package models

import "time"

// User is the identity record as supplied by Casdoor. The prompt service is
// not the owner of this data; it only reads it for display and for the admin
// role panel.
type User struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Email       string  `json:"email"`
	AvatarURL   *string `json:"avatar_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
