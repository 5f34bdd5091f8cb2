package carveauth

import "errors"

var (
	// ErrNoAuthHeader is returned when a request carries no usable
	// Authorization header.
	ErrNoAuthHeader = errors.New("no authorization header")
	// ErrTokenMalformed is returned when a token fails structural or
	// signature verification.
	ErrTokenMalformed = errors.New("malformed token")
	// ErrTokenExpired is returned when a structurally valid token is past
	// its embedded expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrSessionNotFound is returned when the session store has no live
	// session for the presented credential.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionMismatch is returned when the session resolved from the
	// request is not the session embedded in the token.
	ErrSessionMismatch = errors.New("session mismatch")
	// ErrSessionUnavailable is returned when the session store cannot be
	// reached. Callers must fail closed.
	ErrSessionUnavailable = errors.New("session store unavailable")
	// ErrRemoteUnavailable is returned by the validation client when the
	// auth server cannot be reached within the configured timeout.
	ErrRemoteUnavailable = errors.New("validation endpoint unavailable")
	// ErrInvalidCredentials is returned on credential login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned by user providers for unknown accounts.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when creating an account whose email is
	// already registered.
	ErrUserExists = errors.New("user already exists")
	// ErrSecretMissing is returned at build time when no signing secret is
	// configured. There is no fallback secret.
	ErrSecretMissing = errors.New("signing secret not configured")
	// ErrEngineNotReady is returned when an Engine method is called on a
	// nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
