// Package models defines the data shapes exchanged with the backend.
package models

import "time"

// User is the account snapshot returned with a session. It is never
// refreshed independently of the session that carries it.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the credential set produced by an auth exchange. It is replaced
// wholesale on refresh and persisted as one JSON object.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresIn is the token lifetime in seconds as reported by the server.
	ExpiresIn int `json:"expires_in"`
	// ExpiresAt is the absolute expiry in unix seconds, when the server sends it.
	ExpiresAt int64  `json:"expires_at,omitempty"`
	TokenType string `json:"token_type"`
	User      *User  `json:"user,omitempty"`
}

// SignedIn reports whether the session carries an access token.
func (s *Session) SignedIn() bool {
	return s != nil && s.AccessToken != ""
}
