package carveauth

import (
	"errors"
	"time"
)

// Config carries every tunable of the engine. It is validated once during
// Build and treated as immutable afterwards; there is no ambient or global
// configuration lookup.
type Config struct {
	Token    TokenConfig
	Session  SessionConfig
	Password PasswordConfig
}

// TokenConfig configures the signed token codec. Secret is required and is
// shared verbatim with every downstream service that resolves tokens.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	Leeway time.Duration
	Issuer string
}

// SessionConfig configures the Redis session store.
type SessionConfig struct {
	RedisPrefix string
	Lifetime    time.Duration
	CookieName  string
}

// PasswordConfig configures the argon2id hasher used for credential login.
type PasswordConfig struct {
	Memory      uint32 // in KB
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

const minSecretBytes = 32

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			TTL:    7 * 24 * time.Hour,
			Leeway: 30 * time.Second,
			Issuer: "carve-auth",
		},
		Session: SessionConfig{
			RedisPrefix: "carve",
			Lifetime:    7 * 24 * time.Hour,
			CookieName:  "carve.session_token",
		},
		Password: PasswordConfig{
			Memory:      64 * 1024,
			Time:        3,
			Parallelism: 2,
			SaltLength:  16,
			KeyLength:   32,
		},
	}
}

func validateConfig(cfg Config) error {
	if len(cfg.Token.Secret) == 0 {
		return ErrSecretMissing
	}
	if len(cfg.Token.Secret) < minSecretBytes {
		return errors.New("signing secret must be at least 32 bytes")
	}
	if cfg.Token.TTL <= 0 {
		return errors.New("invalid token TTL configuration")
	}
	if cfg.Token.Leeway < 0 || cfg.Token.Leeway > 2*time.Minute {
		return errors.New("invalid token leeway configuration")
	}
	if cfg.Session.Lifetime <= 0 {
		return errors.New("invalid session lifetime configuration")
	}
	if cfg.Session.RedisPrefix == "" {
		return errors.New("session redis prefix must not be empty")
	}
	if cfg.Session.CookieName == "" {
		return errors.New("session cookie name must not be empty")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.Secret = append([]byte(nil), cfg.Token.Secret...)
	return out
}
