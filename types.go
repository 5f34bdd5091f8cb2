package carveauth

import (
	"context"
	"time"

	"github.com/carve-stack/carveauth/session"
	"github.com/carve-stack/carveauth/token"
)

// User is the identity record exposed on the wire. It is owned by the user
// provider; the engine treats it as read-only pass-through data.
type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	Image         string    `json:"image,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// UserRecord is the full account record returned by a [UserProvider]. It
// carries the credential hash and must never cross a network boundary.
type UserRecord struct {
	User
	PasswordHash string
}

// CreateUserInput is the input to [UserProvider.CreateUser]. PasswordHash
// must already be an encoded argon2id hash; providers never see plaintext.
type CreateUserInput struct {
	Name         string
	Email        string
	Image        string
	PasswordHash string
}

// UserProvider is the interface callers implement to plug their user
// database into the engine. The pgstore package ships a Postgres
// implementation; [NewMemoryUserProvider] backs tests and local development.
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*UserRecord, error)
	GetUserByID(ctx context.Context, id string) (*UserRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*UserRecord, error)
}

// LoginResult is returned by [Engine.Login]. The session token inside
// Session is the opaque credential the client stores in its cookie.
type LoginResult struct {
	User    *User
	Session *session.Session
}

// IssueResult is returned by [Engine.IssueToken]: the minted bearer token
// plus the identity and session it is bound to.
type IssueResult struct {
	User    *User
	Session *session.Session
	Token   string
}

// ValidateResult is returned by [Engine.ValidateToken] on success. Failure
// is reported through the error taxonomy in errors.go, never through a
// half-filled result.
type ValidateResult struct {
	User    *User
	Session *session.Session
	Claims  *token.Claims
}
