package models

import "time"

// AuthorizationCode gates self-registration: a new user can only sign up by
// presenting an active code previously issued by an administrator.
type AuthorizationCode struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Active    bool      `json:"active"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}
