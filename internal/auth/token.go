// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// SessionTokenValidity is the lifetime of an issued session token.
const SessionTokenValidity = 7 * 24 * time.Hour

// sessionClaims binds a token to an account via the registered subject.
type sessionClaims struct {
	jwt.RegisteredClaims
}

// TokenIssuer mints and validates stateless session tokens. Tokens are
// self-contained HS256 JWTs; there is no server-side session table, so a
// token stays valid until its natural expiry regardless of logout.
type TokenIssuer struct {
	secret   []byte
	validity time.Duration
}

// NewTokenIssuer creates a TokenIssuer with the process-wide signing secret.
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, oops.Code("AUTH_SECRET_MISSING").Errorf("signing secret is required")
	}
	return &TokenIssuer{secret: []byte(secret), validity: SessionTokenValidity}, nil
}

// Issue produces a signed token for the account, expiring after the
// configured validity window.
func (i *TokenIssuer) Issue(accountID ulid.ULID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_SIGN_FAILED").Wrap(err)
	}
	return signed, nil
}

// Verify validates signature and expiry and returns the bound account ID.
// Expired tokens report AUTH_TOKEN_EXPIRED; every other failure reports
// AUTH_TOKEN_INVALID.
func (i *TokenIssuer) Verify(tokenString string) (ulid.ULID, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ulid.ULID{}, oops.Code(CodeTokenExpired).Errorf("session token has expired")
		}
		return ulid.ULID{}, oops.Code(CodeTokenInvalid).Wrap(err)
	}
	if !token.Valid {
		return ulid.ULID{}, oops.Code(CodeTokenInvalid).Errorf("session token is not valid")
	}

	id, err := ulid.Parse(claims.Subject)
	if err != nil {
		return ulid.ULID{}, oops.Code(CodeTokenInvalid).
			With("subject", claims.Subject).
			Wrap(err)
	}
	return id, nil
}
