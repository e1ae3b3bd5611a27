// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/samber/oops"
)

// OTP expiry windows.
const (
	VerifyOTPExpiry = 24 * time.Hour
	ResetOTPExpiry  = 15 * time.Minute
)

// otpSpan covers the inclusive range 100000..999999: always six digits,
// never a leading zero.
const (
	otpMin  = 100000
	otpSpan = 900000
)

// GenerateOTP produces a uniform random six-digit numeric code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpSpan))
	if err != nil {
		return "", oops.Code("OTP_GENERATE_FAILED").
			With("operation", "crypto/rand.Int").
			Wrap(err)
	}
	return big.NewInt(otpMin + n.Int64()).String(), nil
}

// OTPExpired reports whether an OTP expiry instant has passed. The check is
// strictly after: a code presented exactly at its expiry instant is still
// valid.
func OTPExpired(expiresAt time.Time, now time.Time) bool {
	return now.After(expiresAt)
}
