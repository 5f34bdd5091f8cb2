package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed is returned for tokens that fail structural parsing,
	// signature verification, or claim validation.
	ErrMalformed = errors.New("malformed token")
	// ErrExpired is returned for structurally valid tokens whose exp claim
	// is in the past.
	ErrExpired = errors.New("token expired")
)

const minSecretBytes = 32

// Config configures a Manager. Secret is mandatory; the zero values of the
// remaining fields are filled with safe defaults by NewManager.
type Config struct {
	Secret []byte
	TTL    time.Duration
	Leeway time.Duration
	Issuer string

	// Now overrides the clock. Tests use it to move tokens across their
	// expiry; production code leaves it nil.
	Now func() time.Time
}

// Claims is the payload carried by every issued token. The JSON keys are the
// wire contract with non-Go consumers of this token format.
type Claims struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// Manager issues and parses signed tokens. It is immutable after
// construction and safe for concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a ready Manager. A missing or short
// secret is a hard error: there is no fallback signing key.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: secret is required")
	}
	if len(cfg.Secret) < minSecretBytes {
		return nil, errors.New("token: secret must be at least 32 bytes")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("token: invalid leeway configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Manager{config: cfg}, nil
}

// TTL reports the fixed issuance lifetime. Tokens are never renewed; a new
// token requires a new issuance call.
func (m *Manager) TTL() time.Duration {
	return m.config.TTL
}

// Issue mints a token bound to the given user and session. iat is the
// current clock reading and exp is always strictly after it.
func (m *Manager) Issue(userID, sessionID string) (string, error) {
	if userID == "" || sessionID == "" {
		return "", errors.New("token: userID and sessionID are required")
	}

	now := m.config.Now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
		},
	}
	if m.config.Issuer != "" {
		claims.Issuer = m.config.Issuer
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.config.Secret)
}

// Parse verifies the signature and claims of tokenStr and returns its
// payload. Failures are classified as [ErrExpired] when only the expiry is
// wrong and [ErrMalformed] for everything else, so callers never have to
// inspect library error values.
func (m *Manager) Parse(tokenStr string) (*Claims, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.config.Now),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	parsed, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.config.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformed
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrMalformed
	}
	if claims.IssuedAt != nil && claims.ExpiresAt != nil &&
		!claims.IssuedAt.Time.Before(claims.ExpiresAt.Time) {
		return nil, ErrMalformed
	}

	return claims, nil
}
