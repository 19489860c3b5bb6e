// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package authd

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"

	"github.com/embermud/ember/internal/authapi"
)

// ErrForbidden is returned by SignIn when the password is wrong for an
// existing account.
var ErrForbidden = oops.Code("AUTH_FORBIDDEN").Errorf("incorrect password")

// Service implements the credential operations behind the HTTP handlers.
type Service struct {
	users  UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

// NewService creates a Service. All dependencies are required.
func NewService(users UserRepository, hasher PasswordHasher, tokens TokenIssuer) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Errorf("token issuer is required")
	}
	return &Service{users: users, hasher: hasher, tokens: tokens}, nil
}

// UserExists reports whether an account with the given name exists.
func (s *Service) UserExists(ctx context.Context, name string) (bool, error) {
	_, err := s.users.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, oops.Code("USER_LOOKUP_FAILED").With("name", name).Wrap(err)
	}
	return true, nil
}

// SignIn verifies name/password, creating the account when the name is
// unknown. On success it returns the account identity and a signed token;
// a wrong password for an existing account returns ErrForbidden.
func (s *Service) SignIn(ctx context.Context, name, password string) (*authapi.SignInResponse, error) {
	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, oops.Code("USER_LOOKUP_FAILED").With("name", name).Wrap(err)
		}
		return s.register(ctx, name, password)
	}

	valid, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, oops.Code("PASSWORD_VERIFY_FAILED").With("name", name).Wrap(err)
	}
	if !valid {
		return nil, ErrForbidden
	}

	return s.respond(user)
}

func (s *Service) register(ctx context.Context, name, password string) (*authapi.SignInResponse, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("PASSWORD_HASH_FAILED").With("name", name).Wrap(err)
	}

	user := &User{Name: name, PasswordHash: hash, CreatedAt: time.Now()}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, oops.Code("USER_CREATE_FAILED").With("name", name).Wrap(err)
	}

	return s.respond(user)
}

func (s *Service) respond(user *User) (*authapi.SignInResponse, error) {
	token, err := s.tokens.Issue(user.Name)
	if err != nil {
		return nil, oops.Code("TOKEN_ISSUE_FAILED").With("name", user.Name).Wrap(err)
	}
	return &authapi.SignInResponse{Token: token, ID: user.ID, Name: user.Name}, nil
}
