package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newStoreTest(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewStore(rdb, "carve"), mr
}

func testSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		UserID:    "u-1",
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
		IPAddress: "203.0.113.9",
		UserAgent: "store-test",
	}
}

func TestCreateAndResolve(t *testing.T) {
	store, _ := newStoreTest(t)
	ctx := context.Background()
	sess := testSession()

	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	byID, err := store.GetByID(ctx, sess.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.UserID != sess.UserID || byID.Token != sess.Token {
		t.Fatalf("get by id mismatch: %+v", byID)
	}

	byToken, err := store.GetByToken(ctx, sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if byToken.ID != sess.ID {
		t.Fatalf("get by token resolved %q, want %q", byToken.ID, sess.ID)
	}
}

func TestCreateRejectsPastExpiry(t *testing.T) {
	store, _ := newStoreTest(t)
	sess := testSession()
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	if err := store.Create(context.Background(), sess); err == nil {
		t.Fatal("expected error for non-future expiry")
	}
}

func TestDeleteIsTerminalAndIdempotent(t *testing.T) {
	store, _ := newStoreTest(t)
	ctx := context.Background()
	sess := testSession()

	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if err := store.Delete(ctx, sess.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}

	if _, err := store.GetByID(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after revocation, got %v", err)
	}
	if _, err := store.GetByToken(ctx, sess.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected token index removed, got %v", err)
	}
}

func TestExpiredSessionNeverResolves(t *testing.T) {
	store, mr := newStoreTest(t)
	ctx := context.Background()
	sess := testSession()
	sess.ExpiresAt = time.Now().Add(50 * time.Millisecond)

	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Redis TTL and the record's own expiry both pass.
	mr.FastForward(time.Second)
	time.Sleep(60 * time.Millisecond)

	if _, err := store.GetByID(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for expired session, got %v", err)
	}
}

func TestExpiredRecordDeletedOnRead(t *testing.T) {
	store, _ := newStoreTest(t)
	ctx := context.Background()
	sess := testSession()
	sess.ExpiresAt = time.Now().Add(100 * time.Millisecond)

	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Record expiry passes while the Redis key is still alive (miniredis
	// clock does not advance on its own).
	time.Sleep(120 * time.Millisecond)

	if _, err := store.GetByID(ctx, sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetByToken(ctx, sess.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected dangling index cleaned, got %v", err)
	}
}

func TestUnavailableBackendIsClassified(t *testing.T) {
	store, mr := newStoreTest(t)
	ctx := context.Background()
	sess := testSession()

	if err := store.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.Close()

	if _, err := store.GetByID(ctx, sess.ID); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
	if _, err := store.GetByToken(ctx, sess.Token); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("expected ErrRedisUnavailable, got %v", err)
	}
}

func TestCorruptBlobTreatedAsRevoked(t *testing.T) {
	store, mr := newStoreTest(t)
	ctx := context.Background()

	if err := mr.Set("carve:session:bad", "{not json"); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}
	if _, err := store.GetByID(ctx, "bad"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for corrupt blob, got %v", err)
	}
	if mr.Exists("carve:session:bad") {
		t.Fatal("expected corrupt blob to be deleted")
	}
}
