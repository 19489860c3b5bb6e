// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package authd

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// TokenIssuer mints signed tokens asserting a username claim.
type TokenIssuer interface {
	Issue(name string) (string, error)
}

// JWTIssuer signs HS256 tokens with a shared secret.
type JWTIssuer struct {
	secret []byte
}

// NewJWTIssuer creates an issuer. The secret must be non-empty.
func NewJWTIssuer(secret string) (*JWTIssuer, error) {
	if secret == "" {
		return nil, oops.Code("CONFIG_INVALID").Errorf("token secret is required")
	}
	return &JWTIssuer{secret: []byte(secret)}, nil
}

// Issue signs a token carrying the username as a claim.
func (i *JWTIssuer) Issue(name string) (string, error) {
	claims := jwt.MapClaims{
		"name": name,
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", oops.Code("TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}
