package flows

import (
	"context"
	"errors"

	"github.com/carve-stack/carveauth/session"
)

// IssueFailureKind classifies issuance failures for root-level mapping.
type IssueFailureKind int

const (
	IssueFailureNone IssueFailureKind = iota
	IssueFailureNoCredential
	IssueFailureSessionNotFound
	IssueFailureUnavailable
	IssueFailureMint
)

// IssueResult carries either a minted token with its session or a classified
// failure. Exactly one of the two is populated.
type IssueResult struct {
	Failure IssueFailureKind
	Err     error

	Session *session.Session
	Token   string
}

// IssueDeps captures what token issuance needs from the host package.
type IssueDeps struct {
	SessionByToken func(ctx context.Context, token string) (*session.Session, error)
	Mint           func(userID, sessionID string) (string, error)
	NotFound       error
	Unavailable    error
}

// RunIssue resolves the opaque session credential and mints a bearer token
// bound to the resolved session. The session store decides liveness; an
// expired or revoked session never reaches Mint.
func RunIssue(ctx context.Context, sessionToken string, deps IssueDeps) IssueResult {
	if sessionToken == "" {
		return IssueResult{Failure: IssueFailureNoCredential}
	}

	sess, err := deps.SessionByToken(ctx, sessionToken)
	if err != nil {
		if deps.Unavailable != nil && errors.Is(err, deps.Unavailable) {
			return IssueResult{Failure: IssueFailureUnavailable, Err: err}
		}
		return IssueResult{Failure: IssueFailureSessionNotFound, Err: err}
	}

	minted, err := deps.Mint(sess.UserID, sess.ID)
	if err != nil {
		return IssueResult{Failure: IssueFailureMint, Err: err}
	}

	return IssueResult{Session: sess, Token: minted}
}
