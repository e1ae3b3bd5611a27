// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Account represents a registered identity.
//
// Verified is monotonic: no operation in this package sets it back to false
// once true. VerifyOTP/VerifyOTPExpiresAt and ResetOTP/ResetOTPExpiresAt are
// paired challenge fields: a non-nil code always has a non-nil expiry, and
// both members of a pair are cleared in the same persist call.
type Account struct {
	ID           ulid.ULID
	Name         string
	Email        string
	PasswordHash string
	Verified     bool

	VerifyOTP          *string
	VerifyOTPExpiresAt *time.Time
	ResetOTP           *string
	ResetOTPExpiresAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAccount creates an unverified account with a freshly minted ID.
func NewAccount(name, email, passwordHash string) *Account {
	now := time.Now()
	return &Account{
		ID:           ulid.Make(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SetVerifyChallenge stores a verification OTP with its expiry.
func (a *Account) SetVerifyChallenge(otp string, expiresAt time.Time) {
	a.VerifyOTP = &otp
	a.VerifyOTPExpiresAt = &expiresAt
	a.UpdatedAt = time.Now()
}

// ClearVerifyChallenge removes the verification OTP pair.
func (a *Account) ClearVerifyChallenge() {
	a.VerifyOTP = nil
	a.VerifyOTPExpiresAt = nil
	a.UpdatedAt = time.Now()
}

// SetResetChallenge stores a password-reset OTP with its expiry.
func (a *Account) SetResetChallenge(otp string, expiresAt time.Time) {
	a.ResetOTP = &otp
	a.ResetOTPExpiresAt = &expiresAt
	a.UpdatedAt = time.Now()
}

// ClearResetChallenge removes the password-reset OTP pair.
func (a *Account) ClearResetChallenge() {
	a.ResetOTP = nil
	a.ResetOTPExpiresAt = nil
	a.UpdatedAt = time.Now()
}

// AccountRepository manages account persistence.
//
// Email is the unique identity: Create must fail with an ACCOUNT_EXISTS
// error when the email is already taken, and lookups are exact-match on the
// stored value (email is case-sensitive as stored).
type AccountRepository interface {
	// Create stores a new account.
	Create(ctx context.Context, account *Account) error

	// GetByID retrieves an account by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Account, error)

	// GetByEmail retrieves an account by exact email match.
	// Returns ErrNotFound (wrapped) if no account has the given email.
	GetByEmail(ctx context.Context, email string) (*Account, error)

	// Update persists all mutable fields of an existing account.
	Update(ctx context.Context, account *Account) error

	// UpdatePassword updates only the password hash for an account.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string) error
}
