package carveauth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryUserProvider is an in-memory [UserProvider] for tests and local
// development. Production deployments use the pgstore package.
type MemoryUserProvider struct {
	mu      sync.RWMutex
	byID    map[string]UserRecord
	byEmail map[string]string
}

// NewMemoryUserProvider returns an empty provider.
func NewMemoryUserProvider() *MemoryUserProvider {
	return &MemoryUserProvider{
		byID:    make(map[string]UserRecord),
		byEmail: make(map[string]string),
	}
}

// CreateUser registers a new account. Emails are unique case-insensitively.
func (p *MemoryUserProvider) CreateUser(_ context.Context, input CreateUserInput) (*UserRecord, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[email]; exists {
		return nil, ErrUserExists
	}

	now := time.Now()
	record := UserRecord{
		User: User{
			ID:        uuid.NewString(),
			Name:      input.Name,
			Email:     email,
			Image:     input.Image,
			CreatedAt: now,
			UpdatedAt: now,
		},
		PasswordHash: input.PasswordHash,
	}
	p.byID[record.ID] = record
	p.byEmail[email] = record.ID

	out := record
	return &out, nil
}

// GetUserByEmail looks an account up by email.
func (p *MemoryUserProvider) GetUserByEmail(_ context.Context, email string) (*UserRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	id, ok := p.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, ErrUserNotFound
	}
	record := p.byID[id]
	return &record, nil
}

// GetUserByID looks an account up by identifier.
func (p *MemoryUserProvider) GetUserByID(_ context.Context, id string) (*UserRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	record, ok := p.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &record, nil
}

// Delete removes an account. Used by tests to simulate orphaned sessions.
func (p *MemoryUserProvider) Delete(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if record, ok := p.byID[id]; ok {
		delete(p.byEmail, record.Email)
		delete(p.byID, id)
	}
}

var _ UserProvider = (*MemoryUserProvider)(nil)
