package flows

import (
	"context"
	"errors"

	"github.com/carve-stack/carveauth/session"
	"github.com/carve-stack/carveauth/token"
)

// ValidateFailureKind classifies validation failures for root-level mapping.
type ValidateFailureKind int

const (
	ValidateFailureNone ValidateFailureKind = iota
	ValidateFailureNoCredential
	ValidateFailureTokenMalformed
	ValidateFailureTokenExpired
	ValidateFailureSessionNotFound
	ValidateFailureSessionMismatch
	ValidateFailureUnavailable
)

// ValidateResult carries either the resolved claims and session or a
// classified failure.
type ValidateResult struct {
	Failure ValidateFailureKind
	Err     error

	Claims  *token.Claims
	Session *session.Session
}

// ValidateDeps captures what token validation needs from the host package.
type ValidateDeps struct {
	Parse          func(tokenStr string) (*token.Claims, error)
	SessionByID    func(ctx context.Context, id string) (*session.Session, error)
	SessionByToken func(ctx context.Context, token string) (*session.Session, error)
	TokenExpired   error
	NotFound       error
	Unavailable    error
}

// RunValidate checks a bearer token in two stages: structural parse and
// expiry first, then the session store cross-check. The store is the
// authority of last resort: a parseable, unexpired token whose session has
// been revoked is rejected.
//
// sessionToken is the opaque cookie credential when the request carried one;
// it is optional, but when present the session it resolves must be the very
// session the bearer token embeds.
func RunValidate(ctx context.Context, tokenStr, sessionToken string, deps ValidateDeps) ValidateResult {
	if tokenStr == "" {
		return ValidateResult{Failure: ValidateFailureNoCredential}
	}

	claims, err := deps.Parse(tokenStr)
	if err != nil {
		if deps.TokenExpired != nil && errors.Is(err, deps.TokenExpired) {
			return ValidateResult{Failure: ValidateFailureTokenExpired, Err: err}
		}
		return ValidateResult{Failure: ValidateFailureTokenMalformed, Err: err}
	}

	sess, err := deps.SessionByID(ctx, claims.SessionID)
	if err != nil {
		if deps.Unavailable != nil && errors.Is(err, deps.Unavailable) {
			return ValidateResult{Failure: ValidateFailureUnavailable, Err: err}
		}
		return ValidateResult{Failure: ValidateFailureSessionNotFound, Err: err}
	}
	if sess.UserID != claims.UserID {
		return ValidateResult{Failure: ValidateFailureSessionMismatch}
	}

	if sessionToken != "" {
		cookieSess, err := deps.SessionByToken(ctx, sessionToken)
		if err != nil {
			if deps.Unavailable != nil && errors.Is(err, deps.Unavailable) {
				return ValidateResult{Failure: ValidateFailureUnavailable, Err: err}
			}
			return ValidateResult{Failure: ValidateFailureSessionNotFound, Err: err}
		}
		if cookieSess.ID != claims.SessionID {
			return ValidateResult{Failure: ValidateFailureSessionMismatch}
		}
	}

	return ValidateResult{Claims: claims, Session: sess}
}
