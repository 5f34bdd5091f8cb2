package carveauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carve-stack/carveauth/internal/flows"
	"github.com/carve-stack/carveauth/password"
	"github.com/carve-stack/carveauth/session"
	"github.com/carve-stack/carveauth/token"
)

// Engine binds the token codec, the session store, and the user provider
// into the issuance and validation semantics of the auth server. Build one
// with [New]; the zero value is not usable.
type Engine struct {
	config       Config
	sessionStore *session.Store
	tokenManager *token.Manager
	passwordHash *password.Hasher
	userProvider UserProvider
	metrics      *Metrics
	now          func() time.Time
}

// Metrics exposes the engine's counter set for exporters.
func (e *Engine) Metrics() *Metrics {
	if e == nil {
		return nil
	}
	return e.metrics
}

// MetricsSnapshot copies the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// CookieName reports the configured session cookie name so HTTP layers stay
// in sync with the engine.
func (e *Engine) CookieName() string {
	if e == nil {
		return ""
	}
	return e.config.Session.CookieName
}

// TokenManager exposes the underlying codec. API servers reuse it for the
// local pre-check before calling the validation endpoint.
func (e *Engine) TokenManager() *token.Manager {
	if e == nil {
		return nil
	}
	return e.tokenManager
}

// Login verifies email/password credentials and creates a fresh session.
// Client IP and user agent attached via [WithClientIP] and [WithUserAgent]
// are stamped onto the session record.
func (e *Engine) Login(ctx context.Context, email, plaintext string) (*LoginResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if email == "" || plaintext == "" {
		e.metrics.Inc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	record, err := e.userProvider.GetUserByEmail(ctx, email)
	if err != nil {
		e.metrics.Inc(MetricLoginFailure)
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := e.passwordHash.Verify(plaintext, record.PasswordHash); err != nil {
		e.metrics.Inc(MetricLoginFailure)
		return nil, ErrInvalidCredentials
	}

	now := e.now()
	sess := &session.Session{
		ID:        uuid.NewString(),
		UserID:    record.ID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(e.config.Session.Lifetime),
		CreatedAt: now,
		UpdatedAt: now,
		IPAddress: clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
	}
	if err := e.sessionStore.Create(ctx, sess); err != nil {
		e.metrics.Inc(MetricLoginFailure)
		return nil, fmt.Errorf("login: %w", err)
	}

	e.metrics.Inc(MetricLoginSuccess)
	e.metrics.Inc(MetricSessionCreated)
	user := record.User
	return &LoginResult{User: &user, Session: sess}, nil
}

// Logout revokes the session behind the opaque credential. Revocation is
// terminal: every token minted against the session stops validating
// immediately, regardless of its own expiry. Unknown credentials are a
// no-op.
func (e *Engine) Logout(ctx context.Context, sessionToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if sessionToken == "" {
		return nil
	}
	sess, err := e.sessionStore.GetByToken(ctx, sessionToken)
	if errors.Is(err, session.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("logout: %w", mapStoreErr(err))
	}
	if err := e.sessionStore.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("logout: %w", mapStoreErr(err))
	}
	e.metrics.Inc(MetricSessionRevoked)
	return nil
}

// IssueToken mints a bearer token for the live session behind sessionToken
// and returns it with the resolved identity. This is the issuance half of
// the cross-service flow: the caller proved its session via the external
// cookie mechanism and walks away with a self-contained credential for the
// API tier.
func (e *Engine) IssueToken(ctx context.Context, sessionToken string) (*IssueResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	res := flows.RunIssue(ctx, sessionToken, flows.IssueDeps{
		SessionByToken: e.sessionStore.GetByToken,
		Mint:           e.tokenManager.Issue,
		NotFound:       session.ErrNotFound,
		Unavailable:    session.ErrRedisUnavailable,
	})
	switch res.Failure {
	case flows.IssueFailureNone:
	case flows.IssueFailureNoCredential:
		e.metrics.Inc(MetricIssueRejected)
		return nil, ErrNoAuthHeader
	case flows.IssueFailureSessionNotFound:
		e.metrics.Inc(MetricIssueRejected)
		return nil, ErrSessionNotFound
	case flows.IssueFailureUnavailable:
		e.metrics.Inc(MetricIssueRejected)
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, res.Err)
	default:
		e.metrics.Inc(MetricIssueRejected)
		return nil, fmt.Errorf("issue token: %w", res.Err)
	}

	user, err := e.userForSession(ctx, res.Session)
	if err != nil {
		e.metrics.Inc(MetricIssueRejected)
		return nil, err
	}

	e.metrics.Inc(MetricTokenIssued)
	return &IssueResult{User: user, Session: res.Session, Token: res.Token}, nil
}

// ValidateToken resolves a bearer token back into its identity. The token
// is parsed and expiry-checked first, then cross-checked against the
// session store; the store always wins. sessionToken is optional: when the
// request also carried the session cookie, the cookie's session must be the
// one embedded in the token.
func (e *Engine) ValidateToken(ctx context.Context, tokenStr, sessionToken string) (*ValidateResult, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	res := flows.RunValidate(ctx, tokenStr, sessionToken, flows.ValidateDeps{
		Parse:          e.tokenManager.Parse,
		SessionByID:    e.sessionStore.GetByID,
		SessionByToken: e.sessionStore.GetByToken,
		TokenExpired:   token.ErrExpired,
		NotFound:       session.ErrNotFound,
		Unavailable:    session.ErrRedisUnavailable,
	})
	switch res.Failure {
	case flows.ValidateFailureNone:
	case flows.ValidateFailureNoCredential:
		e.metrics.Inc(MetricValidateRejected)
		return nil, ErrNoAuthHeader
	case flows.ValidateFailureTokenExpired:
		e.metrics.Inc(MetricValidateRejected)
		return nil, ErrTokenExpired
	case flows.ValidateFailureTokenMalformed:
		e.metrics.Inc(MetricValidateRejected)
		return nil, ErrTokenMalformed
	case flows.ValidateFailureSessionNotFound:
		e.metrics.Inc(MetricValidateRejected)
		return nil, ErrSessionNotFound
	case flows.ValidateFailureSessionMismatch:
		e.metrics.Inc(MetricSessionMismatch)
		return nil, ErrSessionMismatch
	case flows.ValidateFailureUnavailable:
		e.metrics.Inc(MetricValidateRejected)
		return nil, fmt.Errorf("%w: %v", ErrSessionUnavailable, res.Err)
	default:
		e.metrics.Inc(MetricValidateRejected)
		return nil, fmt.Errorf("validate token: %w", res.Err)
	}

	user, err := e.userForSession(ctx, res.Session)
	if err != nil {
		e.metrics.Inc(MetricValidateRejected)
		return nil, err
	}

	e.metrics.Inc(MetricValidateSuccess)
	return &ValidateResult{User: user, Session: res.Session, Claims: res.Claims}, nil
}

func (e *Engine) userForSession(ctx context.Context, sess *session.Session) (*User, error) {
	record, err := e.userProvider.GetUserByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Orphaned session: the account is gone, so the session is dead.
			_ = e.sessionStore.Delete(ctx, sess.ID)
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	user := record.User
	return &user, nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, session.ErrRedisUnavailable) {
		return fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
	if errors.Is(err, session.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}
