// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	issuer, err := auth.NewTokenIssuer("")
	require.Error(t, err)
	assert.Nil(t, issuer)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSigningSecret)
	require.NoError(t, err)

	accountID := ulid.Make()
	token, err := issuer.Issue(accountID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, got)
}

func TestTokenIssuer_Verify_WrongSecret(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSigningSecret)
	require.NoError(t, err)
	other, err := auth.NewTokenIssuer("a-different-secret")
	require.NoError(t, err)

	token, err := other.Issue(ulid.Make())
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, auth.CodeTokenInvalid)
}

func TestTokenIssuer_Verify_Garbage(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSigningSecret)
	require.NoError(t, err)

	for _, token := range []string{"garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9..sig"} {
		_, err := issuer.Verify(token)
		require.Error(t, err, "token %q", token)
		errutil.AssertErrorCode(t, err, auth.CodeTokenInvalid)
	}
}

func TestTokenIssuer_Verify_Expired(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSigningSecret)
	require.NoError(t, err)

	// Sign an already-expired token with the same secret.
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   ulid.Make().String(),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	token, err := expired.SignedString([]byte(testSigningSecret))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, auth.CodeTokenExpired)
}

func TestTokenIssuer_Verify_UnexpectedAlgorithm(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSigningSecret)
	require.NoError(t, err)

	// HS512 signed with the right secret must still be rejected.
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   ulid.Make().String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := foreign.SignedString([]byte(testSigningSecret))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, auth.CodeTokenInvalid)
}

func TestTokenIssuer_Verify_NonULIDSubject(t *testing.T) {
	issuer, err := auth.NewTokenIssuer(testSigningSecret)
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := foreign.SignedString([]byte(testSigningSecret))
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, auth.CodeTokenInvalid)
}
