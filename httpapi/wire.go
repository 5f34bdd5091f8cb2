package httpapi

import (
	carveauth "github.com/carve-stack/carveauth"
	"github.com/carve-stack/carveauth/session"
	"github.com/carve-stack/carveauth/token"
)

// Wire error strings. These are contract, not prose: downstream consumers
// match on them.
const (
	errNoAuthHeader   = "No authorization header"
	errInvalidSession = "Invalid session"
	errInvalidToken   = "Invalid token"
	errSessionExpired = "Session expired"
	errInvalidRequest = "Invalid request"
)

// SignInRequest is the credential login body.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse returns the created identity; the session credential
// travels in the cookie, not the body.
type SignInResponse struct {
	User    *carveauth.User  `json:"user,omitempty"`
	Session *session.Session `json:"session,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// ValidateSessionResponse is the body of POST /api/validate-session.
type ValidateSessionResponse struct {
	Valid   bool             `json:"valid"`
	User    *carveauth.User  `json:"user,omitempty"`
	Session *session.Session `json:"session,omitempty"`
	Token   string           `json:"token,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// ValidateTokenResponse is the body of POST /api/validate-jwt.
type ValidateTokenResponse struct {
	Valid   bool             `json:"valid"`
	User    *carveauth.User  `json:"user,omitempty"`
	Session *session.Session `json:"session,omitempty"`
	Payload *token.Claims    `json:"payload,omitempty"`
	Error   string           `json:"error,omitempty"`
}
