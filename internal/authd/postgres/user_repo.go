// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package postgres implements authd repositories on PostgreSQL.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"

	"github.com/embermud/ember/internal/authd"
)

// UserRepository implements authd.UserRepository using PostgreSQL.
type UserRepository struct {
	pool Querier
}

// Querier is the subset of pgxpool.Pool the repository needs.
// Satisfied by *pgxpool.Pool and by pgxmock in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewUserRepository creates a repository over the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithQuerier creates a repository over any Querier.
func NewUserRepositoryWithQuerier(q Querier) *UserRepository {
	return &UserRepository{pool: q}
}

// GetByName retrieves a user by exact name.
func (r *UserRepository) GetByName(ctx context.Context, name string) (*authd.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, password_hash, created_at
		FROM users
		WHERE name = $1
	`, name)

	var user authd.User
	err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("name", name).
			Wrap(authd.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_NAME_FAILED").
			With("operation", "get user by name").
			With("name", name).
			Wrap(err)
	}
	return &user, nil
}

// Create stores a new user and fills in its assigned id.
func (r *UserRepository) Create(ctx context.Context, user *authd.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, user.Name, user.PasswordHash, user.CreatedAt)

	if err := row.Scan(&user.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return oops.Code("USER_NAME_TAKEN").
				With("name", user.Name).
				Wrap(err)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("name", user.Name).
			Wrap(err)
	}
	return nil
}
