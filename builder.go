package carveauth

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/carve-stack/carveauth/password"
	"github.com/carve-stack/carveauth/session"
	"github.com/carve-stack/carveauth/token"
)

// Builder assembles an [Engine]. Configuration errors surface from Build,
// never later: a misconfigured secret must stop the process before it serves
// traffic.
type Builder struct {
	config       Config
	redis        *redis.Client
	userProvider UserProvider
	now          func() time.Time
	built        bool
}

// New returns a Builder seeded with default configuration. The signing
// secret has no default and must be supplied through [Builder.WithConfig]
// or [Builder.WithSecret].
func New() *Builder {
	return &Builder{config: defaultConfig(), now: time.Now}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the shared signing secret on the default configuration.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.Token.Secret = append([]byte(nil), secret...)
	return b
}

// WithRedis sets the Redis client backing the session store.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserProvider sets the identity backend.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithClock overrides the engine clock. Tests use it to walk sessions and
// tokens across their expiry.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	if now != nil {
		b.now = now
	}
	return b
}

// Build validates the configuration and wires the engine. A Builder builds
// at most once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider is required")
	}

	tokenManager, err := token.NewManager(token.Config{
		Secret: b.config.Token.Secret,
		TTL:    b.config.Token.TTL,
		Leeway: b.config.Token.Leeway,
		Issuer: b.config.Token.Issuer,
		Now:    b.now,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.Config{
		Memory:      b.config.Password.Memory,
		Time:        b.config.Password.Time,
		Parallelism: b.config.Password.Parallelism,
		SaltLength:  b.config.Password.SaltLength,
		KeyLength:   b.config.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	b.built = true
	return &Engine{
		config:       b.config,
		sessionStore: session.NewStore(b.redis, b.config.Session.RedisPrefix),
		tokenManager: tokenManager,
		passwordHash: hasher,
		userProvider: b.userProvider,
		metrics:      NewMetrics(),
		now:          b.now,
	}, nil
}
