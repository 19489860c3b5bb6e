// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package authapi defines the wire types of the credential service HTTP
// contract, shared by the service and its clients.
package authapi

// UserExistsRequest is the body of POST /user_exists.
// The response carries no body: 302 when the user exists, 404 when not.
type UserExistsRequest struct {
	Name string `json:"name"`
}

// SignInRequest is the body of POST /sign_in.
type SignInRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SignInResponse is the 200 body of POST /sign_in. Sign-in creates the
// account when the name is unknown; Token asserts the name as a claim.
type SignInResponse struct {
	Token string `json:"token"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
}
