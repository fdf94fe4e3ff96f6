package models

import "time"

// Session is the server-side record behind an issued bearer token. A token
// is only honored while its session row exists, is unexpired, and the owning
// user is still active.
type Session struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	AccessCode string    `json:"accessCode"`
	Token      string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// ActiveSession is a session joined to its owning user, as loaded for token
// verification.
type ActiveSession struct {
	Session Session
	User    User
}
