package domain

import "time"

// AuthAction identifies which account operation produced an audit event.
type AuthAction string

const (
	ActionSignUp      AuthAction = "sign_up"
	ActionSignIn      AuthAction = "sign_in"
	ActionSignInToken AuthAction = "sign_in_with_token"
)

// AuthEvent is an audit-trail record of one authentication attempt.
// Events are written asynchronously and never block the request path.
type AuthEvent struct {
	UserID     string     `json:"user_id,omitempty"`
	Email      string     `json:"email"`
	Action     AuthAction `json:"action"`
	Success    bool       `json:"success"`
	RemoteIP   string     `json:"remote_ip,omitempty"`
	RecordedAt time.Time  `json:"recorded_at"`
}
