// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ember Contributors

package authd_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermud/ember/internal/authapi"
	"github.com/embermud/ember/internal/authd"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	service, _ := newTestService(t)
	return authd.NewRouter(service, slog.Default())
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_UserExists(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/user_exists", authapi.UserExistsRequest{Name: "Alice"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = postJSON(t, router, "/sign_in", authapi.SignInRequest{Name: "Alice", Password: "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/user_exists", authapi.UserExistsRequest{Name: "Alice"})
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRouter_UserExists_BadRequest(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/user_exists", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postJSON(t, router, "/user_exists", authapi.UserExistsRequest{Name: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SignIn(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/sign_in", authapi.SignInRequest{Name: "Alice", Password: "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp authapi.SignInResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Alice", resp.Name)
	assert.Positive(t, resp.ID)
	assert.NotEmpty(t, resp.Token)
}

func TestRouter_SignIn_WrongPassword(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/sign_in", authapi.SignInRequest{Name: "Alice", Password: "hunter22"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/sign_in", authapi.SignInRequest{Name: "Alice", Password: "wrong-pass"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Body.String(), "no identity leaks on a rejected sign-in")
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
