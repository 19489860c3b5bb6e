// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

// Package auth drives the per-connection authentication protocol: the
// name/password state machine running inside the simulation tick, and the
// HTTP client it uses to talk to the credential service.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/embermud/ember/internal/authapi"
)

// ErrForbidden is returned by SignIn when the password check fails for an
// existing account.
var ErrForbidden = oops.Code("AUTH_FORBIDDEN").Errorf("incorrect password")

// CredentialClient is what the state machine needs from the credential
// service. Satisfied by Client; mocked in tests.
type CredentialClient interface {
	// UserExists reports whether an account with the given name exists.
	UserExists(ctx context.Context, name string) (bool, error)

	// SignIn authenticates name/password, creating the account if the
	// name is unknown. Returns ErrForbidden on a bad password.
	SignIn(ctx context.Context, name, password string) (*authapi.SignInResponse, error)
}

// Client calls the credential service over HTTP. Transport failures are
// retried with bounded backoff; positive user_exists lookups are cached
// briefly so the name step doesn't hammer the service on retries.
type Client struct {
	baseURL string
	http    *http.Client
	known   *cache.Cache
}

// NewClient creates a client for the credential service at baseURL
// (e.g. "http://127.0.0.1:3000").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 5 * time.Second,
			// user_exists answers 302 as a status, not a redirect
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		known: cache.New(30*time.Second, time.Minute),
	}
}

// UserExists posts to /user_exists and maps 302 to true, 404 to false.
// Any other status is an error; per the state machine's contract that must
// not advance authentication.
func (c *Client) UserExists(ctx context.Context, name string) (bool, error) {
	if _, found := c.known.Get(name); found {
		return true, nil
	}

	status, err := c.post(ctx, "/user_exists", authapi.UserExistsRequest{Name: name}, nil)
	if err != nil {
		return false, err
	}

	switch status {
	case http.StatusFound:
		c.known.SetDefault(name, true)
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, oops.Code("AUTH_UPSTREAM_ERROR").
			With("status", status).
			Errorf("unexpected status from user_exists")
	}
}

// SignIn posts to /sign_in. 200 yields the account identity, 403 yields
// ErrForbidden, anything else is an upstream error.
func (c *Client) SignIn(ctx context.Context, name, password string) (*authapi.SignInResponse, error) {
	var resp authapi.SignInResponse
	status, err := c.post(ctx, "/sign_in", authapi.SignInRequest{Name: name, Password: password}, &resp)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		c.known.SetDefault(name, true)
		return &resp, nil
	case http.StatusForbidden:
		return nil, ErrForbidden
	default:
		return nil, oops.Code("AUTH_UPSTREAM_ERROR").
			With("status", status).
			Errorf("unexpected status from sign_in")
	}
}

// post sends a JSON body and decodes the response into out when non-nil.
// Transport errors are retried up to 3 times with fibonacci backoff;
// whatever status the service answers with is returned as-is.
func (c *Client) post(ctx context.Context, path string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, oops.With("path", path).Wrap(err)
	}

	var status int
	backoff := retry.WithMaxRetries(3, retry.NewFibonacci(100*time.Millisecond))

	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/json")

		resp, doErr := c.http.Do(req)
		if doErr != nil {
			return retry.RetryableError(doErr)
		}
		defer resp.Body.Close() //nolint:errcheck // read-only body

		status = resp.StatusCode
		if out != nil && resp.StatusCode == http.StatusOK {
			if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
				return decErr
			}
		}
		return nil
	})
	if err != nil {
		return 0, oops.Code("AUTH_UNREACHABLE").With("path", path).Wrap(err)
	}

	return status, nil
}
