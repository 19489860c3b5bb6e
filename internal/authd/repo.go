// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package authd

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned when a requested user does not exist.
var ErrNotFound = errors.New("not found")

// User is one stored account. Only a salted hash of the password is kept.
type User struct {
	ID           int64
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository persists users keyed by unique name.
type UserRepository interface {
	// GetByName retrieves a user by exact name. Returns ErrNotFound
	// (possibly wrapped) when no such user exists.
	GetByName(ctx context.Context, name string) (*User, error)

	// Create stores a new user and fills in its assigned ID.
	Create(ctx context.Context, user *User) error
}

// MemoryUserRepository is an in-memory UserRepository for tests and
// development runs without a database.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[string]*User
	nextID int64
}

// NewMemoryUserRepository creates an empty in-memory repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*User), nextID: 1}
}

// GetByName retrieves a user by name.
func (r *MemoryUserRepository) GetByName(_ context.Context, name string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[name]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// Create stores a new user, assigning the next id.
func (r *MemoryUserRepository) Create(_ context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Name]; ok {
		return errors.New("user already exists")
	}
	user.ID = r.nextID
	r.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	copied := *user
	r.users[user.Name] = &copied
	return nil
}
