package store

import "time"

// OAuthState is the short-lived anti-forgery token handed out with a login
// URL and consumed exactly once on callback.
type OAuthState struct {
	State     string
	Provider  string
	CreatedAt time.Time
}
