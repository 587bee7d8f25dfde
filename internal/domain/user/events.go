package user

import "time"

const (
	EventUserLoggedIn  = "UserLoggedIn"
	EventUserSignedUp  = "UserSignedUp"
	EventUserLoggedOut = "UserLoggedOut"
)

// UserLoggedIn is emitted when a session logs in with the demo account
type UserLoggedIn struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	LoggedAt  time.Time `json:"logged_at"`
}

// UserSignedUp is emitted when a session creates an (unverified) account
type UserSignedUp struct {
	SessionID  string    `json:"session_id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	SignedUpAt time.Time `json:"signed_up_at"`
}

// UserLoggedOut is emitted when a session logs out
type UserLoggedOut struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	LoggedAt  time.Time `json:"logged_at"`
}
