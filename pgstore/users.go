package pgstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	carveauth "github.com/carve-stack/carveauth"
)

// UserStore is a PostgreSQL-backed user provider.
type UserStore struct {
	pool *pgxpool.Pool
}

var _ carveauth.UserProvider = (*UserStore)(nil)

// New wraps a pgx pool.
func New(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

const userColumns = "id, name, email, email_verified, COALESCE(image, ''), password_hash, created_at, updated_at"

func scanUser(row pgx.Row) (*carveauth.UserRecord, error) {
	var record carveauth.UserRecord
	err := row.Scan(
		&record.ID,
		&record.Name,
		&record.Email,
		&record.EmailVerified,
		&record.Image,
		&record.PasswordHash,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, carveauth.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pgstore: %w", err)
	}
	return &record, nil
}

// GetUserByEmail looks an account up by email, case-insensitively.
func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*carveauth.UserRecord, error) {
	q := "SELECT " + userColumns + " FROM users WHERE lower(email) = lower($1)"
	return scanUser(s.pool.QueryRow(ctx, q, strings.TrimSpace(email)))
}

// GetUserByID looks an account up by identifier.
func (s *UserStore) GetUserByID(ctx context.Context, id string) (*carveauth.UserRecord, error) {
	q := "SELECT " + userColumns + " FROM users WHERE id = $1"
	return scanUser(s.pool.QueryRow(ctx, q, id))
}

// CreateUser inserts a new account and returns it with the generated id and
// timestamps. Duplicate emails map to [carveauth.ErrUserExists].
func (s *UserStore) CreateUser(ctx context.Context, input carveauth.CreateUserInput) (*carveauth.UserRecord, error) {
	q := `INSERT INTO users (name, email, image, password_hash)
	      VALUES ($1, lower($2), NULLIF($3, ''), $4)
	      RETURNING ` + userColumns

	record, err := scanUser(s.pool.QueryRow(ctx, q, input.Name, strings.TrimSpace(input.Email), input.Image, input.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, carveauth.ErrUserExists
		}
		return nil, err
	}
	return record, nil
}
