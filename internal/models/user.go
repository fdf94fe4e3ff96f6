package models

import "time"

type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      *string   `json:"email,omitempty"`
	AccessCode string    `json:"accessCode"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PublicUser is the projection returned to clients; the internal record is
// never serialized wholesale.
type PublicUser struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	AccessCode string `json:"accessCode"`
}

func (u *User) Public() PublicUser {
	email := ""
	if u.Email != nil {
		email = *u.Email
	}
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      email,
		AccessCode: u.AccessCode,
	}
}
