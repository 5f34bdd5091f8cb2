package flows

import (
	"context"
	"errors"
	"testing"

	"github.com/carve-stack/carveauth/session"
	"github.com/carve-stack/carveauth/token"
)

var (
	errExpired     = errors.New("expired")
	errMalformed   = errors.New("malformed")
	errNotFound    = errors.New("not found")
	errUnavailable = errors.New("unavailable")
)

func validDeps(sess *session.Session) ValidateDeps {
	return ValidateDeps{
		Parse: func(string) (*token.Claims, error) {
			return &token.Claims{UserID: sess.UserID, SessionID: sess.ID}, nil
		},
		SessionByID: func(_ context.Context, id string) (*session.Session, error) {
			if id != sess.ID {
				return nil, errNotFound
			}
			return sess, nil
		},
		SessionByToken: func(_ context.Context, tok string) (*session.Session, error) {
			if tok != sess.Token {
				return nil, errNotFound
			}
			return sess, nil
		},
		TokenExpired: errExpired,
		NotFound:     errNotFound,
		Unavailable:  errUnavailable,
	}
}

func TestRunValidateSuccess(t *testing.T) {
	sess := &session.Session{ID: "s1", UserID: "u1", Token: "tok"}
	res := RunValidate(context.Background(), "bearer", "", validDeps(sess))
	if res.Failure != ValidateFailureNone {
		t.Fatalf("failure = %v, err %v", res.Failure, res.Err)
	}
	if res.Session != sess || res.Claims == nil {
		t.Fatal("expected claims and session populated")
	}
}

func TestRunValidateClassification(t *testing.T) {
	sess := &session.Session{ID: "s1", UserID: "u1", Token: "tok"}

	cases := []struct {
		name   string
		tok    string
		cookie string
		mutate func(*ValidateDeps)
		want   ValidateFailureKind
	}{
		{
			name: "empty token",
			want: ValidateFailureNoCredential,
		},
		{
			name: "expired",
			tok:  "bearer",
			mutate: func(d *ValidateDeps) {
				d.Parse = func(string) (*token.Claims, error) { return nil, errExpired }
			},
			want: ValidateFailureTokenExpired,
		},
		{
			name: "malformed",
			tok:  "bearer",
			mutate: func(d *ValidateDeps) {
				d.Parse = func(string) (*token.Claims, error) { return nil, errMalformed }
			},
			want: ValidateFailureTokenMalformed,
		},
		{
			name: "session revoked",
			tok:  "bearer",
			mutate: func(d *ValidateDeps) {
				d.SessionByID = func(context.Context, string) (*session.Session, error) {
					return nil, errNotFound
				}
			},
			want: ValidateFailureSessionNotFound,
		},
		{
			name: "store unavailable",
			tok:  "bearer",
			mutate: func(d *ValidateDeps) {
				d.SessionByID = func(context.Context, string) (*session.Session, error) {
					return nil, errUnavailable
				}
			},
			want: ValidateFailureUnavailable,
		},
		{
			name: "user claim contradicts session",
			tok:  "bearer",
			mutate: func(d *ValidateDeps) {
				d.Parse = func(string) (*token.Claims, error) {
					return &token.Claims{UserID: "someone-else", SessionID: sess.ID}, nil
				}
			},
			want: ValidateFailureSessionMismatch,
		},
		{
			name:   "cookie resolves different session",
			tok:    "bearer",
			cookie: "other-token",
			mutate: func(d *ValidateDeps) {
				d.SessionByToken = func(context.Context, string) (*session.Session, error) {
					return &session.Session{ID: "s2", UserID: "u1"}, nil
				}
			},
			want: ValidateFailureSessionMismatch,
		},
		{
			name:   "cookie session revoked",
			tok:    "bearer",
			cookie: "gone",
			want:   ValidateFailureSessionNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := validDeps(sess)
			if tc.mutate != nil {
				tc.mutate(&deps)
			}
			res := RunValidate(context.Background(), tc.tok, tc.cookie, deps)
			if res.Failure != tc.want {
				t.Fatalf("failure = %v, want %v (err %v)", res.Failure, tc.want, res.Err)
			}
		})
	}
}

func TestRunIssue(t *testing.T) {
	sess := &session.Session{ID: "s1", UserID: "u1", Token: "tok"}
	deps := IssueDeps{
		SessionByToken: func(_ context.Context, tok string) (*session.Session, error) {
			if tok != sess.Token {
				return nil, errNotFound
			}
			return sess, nil
		},
		Mint: func(userID, sessionID string) (string, error) {
			return userID + ":" + sessionID, nil
		},
		NotFound:    errNotFound,
		Unavailable: errUnavailable,
	}

	res := RunIssue(context.Background(), "tok", deps)
	if res.Failure != IssueFailureNone || res.Token != "u1:s1" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if res := RunIssue(context.Background(), "", deps); res.Failure != IssueFailureNoCredential {
		t.Fatalf("empty credential: failure = %v", res.Failure)
	}
	if res := RunIssue(context.Background(), "unknown", deps); res.Failure != IssueFailureSessionNotFound {
		t.Fatalf("unknown credential: failure = %v", res.Failure)
	}

	deps.SessionByToken = func(context.Context, string) (*session.Session, error) {
		return nil, errUnavailable
	}
	if res := RunIssue(context.Background(), "tok", deps); res.Failure != IssueFailureUnavailable {
		t.Fatalf("unavailable store: failure = %v", res.Failure)
	}

	deps.SessionByToken = func(context.Context, string) (*session.Session, error) {
		return sess, nil
	}
	deps.Mint = func(string, string) (string, error) { return "", errors.New("boom") }
	if res := RunIssue(context.Background(), "tok", deps); res.Failure != IssueFailureMint {
		t.Fatalf("mint failure: failure = %v", res.Failure)
	}
}
