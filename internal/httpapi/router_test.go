// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/internal/httpapi"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memAccountRepo is an in-memory auth.AccountRepository for handler tests.
type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account // keyed by ID
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]*auth.Account)}
}

func (r *memAccountRepo) Create(_ context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return oops.Code(auth.CodeAccountExists).Errorf("account already exists")
		}
	}
	clone := *account
	r.accounts[account.ID.String()] = &clone
	return nil
}

func (r *memAccountRepo) GetByID(_ context.Context, id ulid.ULID) (*auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id.String()]
	if !ok {
		return nil, oops.Wrap(auth.ErrNotFound)
	}
	clone := *account
	return &clone, nil
}

func (r *memAccountRepo) GetByEmail(_ context.Context, email string) (*auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			clone := *account
			return &clone, nil
		}
	}
	return nil, oops.Wrap(auth.ErrNotFound)
}

func (r *memAccountRepo) Update(_ context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID.String()]; !ok {
		return oops.Wrap(auth.ErrNotFound)
	}
	clone := *account
	r.accounts[account.ID.String()] = &clone
	return nil
}

func (r *memAccountRepo) UpdatePassword(_ context.Context, id ulid.ULID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id.String()]
	if !ok {
		return oops.Wrap(auth.ErrNotFound)
	}
	account.PasswordHash = passwordHash
	return nil
}

// captureDispatcher records the codes it is asked to deliver.
type captureDispatcher struct {
	mu            sync.Mutex
	lastVerifyOTP string
	lastResetOTP  string
	welcomes      int
}

func (d *captureDispatcher) SendWelcome(context.Context, string, string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.welcomes++
	return nil
}

func (d *captureDispatcher) SendVerifyOTP(_ context.Context, _, otp string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastVerifyOTP = otp
	return nil
}

func (d *captureDispatcher) SendResetOTP(_ context.Context, _, otp string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastResetOTP = otp
	return nil
}

type testAPI struct {
	router *gin.Engine
	mailer *captureDispatcher
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	issuer, err := auth.NewTokenIssuer("router-test-secret")
	require.NoError(t, err)

	mailer := &captureDispatcher{}
	service, err := auth.NewService(newMemAccountRepo(), auth.NewBcryptHasher(), issuer, mailer)
	require.NoError(t, err)

	authHandler := httpapi.NewAuthHandler(service, nil, false, nil)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Auth:    authHandler,
		User:    httpapi.NewUserHandler(nil),
		Session: httpapi.NewSessionAuth(service, nil),
	})
	return &testAPI{router: router, mailer: mailer}
}

// do sends a JSON request, attaching the session cookie when given.
func (a *testAPI) do(t *testing.T, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == httpapi.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func TestRouter_Welcome(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "API working", w.Body.String())
}

func TestRouter_AccountLifecycle(t *testing.T) {
	api := newTestAPI(t)

	// Register: session starts immediately, account unverified.
	w := api.do(t, http.MethodPost, "/api/auth/register",
		gin.H{"name": "Alice", "email": "alice@example.com", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.NotEmpty(t, cookie.Value)
	assert.Equal(t, 1, api.mailer.welcomes)

	registered := decodeBody(t, w)["user"].(map[string]any)
	assert.NotEmpty(t, registered["id"])
	assert.Equal(t, "Alice", registered["name"])
	assert.Equal(t, "alice@example.com", registered["email"])
	assert.Equal(t, false, registered["isAccountVerified"])

	w = api.do(t, http.MethodGet, "/api/user/data", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	userData := body["userData"].(map[string]any)
	assert.Equal(t, "Alice", userData["name"])
	assert.Equal(t, false, userData["isAccountVerified"])

	// Request a verification code and confirm with the wrong one first.
	w = api.do(t, http.MethodPost, "/api/auth/send-verify-otp", gin.H{}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	otp := api.mailer.lastVerifyOTP
	require.Len(t, otp, 6)

	wrong := "000000"
	if wrong == otp {
		wrong = "000001"
	}
	w = api.do(t, http.MethodPost, "/api/auth/verify-account", gin.H{"otp": wrong}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid OTP", decodeBody(t, w)["message"])

	w = api.do(t, http.MethodPost, "/api/auth/verify-account", gin.H{"otp": otp}, cookie)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/user/data", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	userData = decodeBody(t, w)["userData"].(map[string]any)
	assert.Equal(t, true, userData["isAccountVerified"])

	// Verification is monotonic: another request is rejected.
	w = api.do(t, http.MethodPost, "/api/auth/send-verify-otp", gin.H{}, cookie)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Account already verified", decodeBody(t, w)["message"])

	// Logout clears the cookie.
	w = api.do(t, http.MethodPost, "/api/auth/logout", gin.H{}, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := sessionCookie(t, w)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)

	// Without a cookie the guarded routes are closed.
	w = api.do(t, http.MethodGet, "/api/auth/is-auth", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Login(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/auth/register",
		gin.H{"name": "Alice", "email": "alice@example.com", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("valid credentials", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login",
			gin.H{"email": "alice@example.com", "password": "s3cret"}, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		cookie := sessionCookie(t, w)

		user := decodeBody(t, w)["user"].(map[string]any)
		assert.Equal(t, "Alice", user["name"])
		assert.Equal(t, "alice@example.com", user["email"])
		assert.Equal(t, false, user["isAccountVerified"])

		w = api.do(t, http.MethodGet, "/api/auth/is-auth", nil, cookie)
		assert.Equal(t, http.StatusOK, w.Code)
		authed := decodeBody(t, w)["user"].(map[string]any)
		assert.Equal(t, user["id"], authed["id"])
		assert.Equal(t, "alice@example.com", authed["email"])
	})

	t.Run("unverified accounts may log in", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login",
			gin.H{"email": "alice@example.com", "password": "s3cret"}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		wrongPassword := api.do(t, http.MethodPost, "/api/auth/login",
			gin.H{"email": "alice@example.com", "password": "nope"}, nil)
		unknownEmail := api.do(t, http.MethodPost, "/api/auth/login",
			gin.H{"email": "ghost@example.com", "password": "nope"}, nil)

		assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
		assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})

	t.Run("email lookup is case-sensitive", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/login",
			gin.H{"email": "Alice@example.com", "password": "s3cret"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRouter_TamperedCookie(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/user/data", nil,
		&http.Cookie{Name: httpapi.SessionCookieName, Value: "not.a.real.token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["success"])
}

func TestRouter_PasswordReset(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/auth/register",
		gin.H{"name": "Alice", "email": "alice@example.com", "password": "oldpass"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("unknown email reports not found", func(t *testing.T) {
		w := api.do(t, http.MethodPost, "/api/auth/send-reset-otp",
			gin.H{"email": "ghost@example.com"}, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	w = api.do(t, http.MethodPost, "/api/auth/send-reset-otp",
		gin.H{"email": "alice@example.com"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	otp := api.mailer.lastResetOTP
	require.Len(t, otp, 6)

	// Pre-check does not consume the code.
	w = api.do(t, http.MethodPost, "/api/auth/verify-reset-otp",
		gin.H{"email": "alice@example.com", "otp": otp}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The final step still validates independently.
	wrong := "000000"
	if wrong == otp {
		wrong = "000001"
	}
	w = api.do(t, http.MethodPost, "/api/auth/reset-password",
		gin.H{"email": "alice@example.com", "otp": wrong, "newPassword": "newpass"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/reset-password",
		gin.H{"email": "alice@example.com", "otp": otp, "newPassword": "newpass"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The code was consumed with the successful reset.
	w = api.do(t, http.MethodPost, "/api/auth/reset-password",
		gin.H{"email": "alice@example.com", "otp": otp, "newPassword": "again"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Old credential is dead, new one works.
	w = api.do(t, http.MethodPost, "/api/auth/login",
		gin.H{"email": "alice@example.com", "password": "oldpass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/login",
		gin.H{"email": "alice@example.com", "password": "newpass"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	api := newTestAPI(t)

	first := api.do(t, http.MethodPost, "/api/auth/register",
		gin.H{"name": "Alice", "email": "alice@example.com", "password": "s3cret"}, nil)
	require.Equal(t, http.StatusCreated, first.Code)

	second := api.do(t, http.MethodPost, "/api/auth/register",
		gin.H{"name": "Mallory", "email": "alice@example.com", "password": "other"}, nil)
	assert.Equal(t, http.StatusBadRequest, second.Code)
	assert.Equal(t, "Account already exists", decodeBody(t, second)["message"])
}

func TestRouter_MissingFields(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct {
		path string
		body gin.H
	}{
		{"/api/auth/register", gin.H{"email": "alice@example.com", "password": "x"}},
		{"/api/auth/login", gin.H{"email": "alice@example.com"}},
		{"/api/auth/reset-password", gin.H{"email": "alice@example.com", "otp": "123456"}},
	} {
		t.Run(tc.path, func(t *testing.T) {
			w := api.do(t, http.MethodPost, tc.path, tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprintf("body: %s", w.Body.String()))
			assert.Equal(t, "Missing required fields", decodeBody(t, w)["message"])
		})
	}
}
