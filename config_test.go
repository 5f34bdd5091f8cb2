package carveauth

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestBuildFailsWithoutSecret(t *testing.T) {
	_, err := New().
		WithRedis(testRedis(t)).
		WithUserProvider(NewMemoryUserProvider()).
		Build()
	if !errors.Is(err, ErrSecretMissing) {
		t.Fatalf("expected ErrSecretMissing, got %v", err)
	}
}

func TestBuildRejectsWeakSecret(t *testing.T) {
	_, err := New().
		WithSecret([]byte("tooshort")).
		WithRedis(testRedis(t)).
		WithUserProvider(NewMemoryUserProvider()).
		Build()
	if err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestBuildRequiresDependencies(t *testing.T) {
	secret := bytes.Repeat([]byte("c"), 32)

	if _, err := New().WithSecret(secret).WithUserProvider(NewMemoryUserProvider()).Build(); err == nil {
		t.Fatal("expected error without redis client")
	}
	if _, err := New().WithSecret(secret).WithRedis(testRedis(t)).Build(); err == nil {
		t.Fatal("expected error without user provider")
	}
}

func TestBuildConfigBounds(t *testing.T) {
	mutations := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero token ttl", func(c *Config) { c.Token.TTL = 0 }},
		{"excessive leeway", func(c *Config) { c.Token.Leeway = time.Hour }},
		{"zero session lifetime", func(c *Config) { c.Session.Lifetime = 0 }},
		{"empty redis prefix", func(c *Config) { c.Session.RedisPrefix = "" }},
		{"empty cookie name", func(c *Config) { c.Session.CookieName = "" }},
	}
	for _, tc := range mutations {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.Token.Secret = bytes.Repeat([]byte("c"), 32)
			tc.mutate(&cfg)
			_, err := New().
				WithConfig(cfg).
				WithRedis(testRedis(t)).
				WithUserProvider(NewMemoryUserProvider()).
				Build()
			if err == nil {
				t.Fatal("expected config error")
			}
		})
	}
}

func TestBuilderBuildsOnce(t *testing.T) {
	b := New().
		WithSecret(bytes.Repeat([]byte("c"), 32)).
		WithRedis(testRedis(t)).
		WithUserProvider(NewMemoryUserProvider())

	if _, err := b.Build(); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second build to fail")
	}
}

func TestConfigSecretIsCloned(t *testing.T) {
	secret := bytes.Repeat([]byte("c"), 32)
	cfg := defaultConfig()
	cfg.Token.Secret = secret

	engine, err := New().
		WithConfig(cfg).
		WithRedis(testRedis(t)).
		WithUserProvider(NewMemoryUserProvider()).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Mutating the caller's slice must not affect the engine.
	secret[0] ^= 0xFF
	tok, err := engine.TokenManager().Issue("u1", "s1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := engine.TokenManager().Parse(tok); err != nil {
		t.Fatalf("Parse after caller mutation: %v", err)
	}
}
