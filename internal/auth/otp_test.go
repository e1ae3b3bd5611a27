// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/internal/auth"
)

func TestGenerateOTP_AlwaysSixDigits(t *testing.T) {
	for range 512 {
		otp, err := auth.GenerateOTP()
		require.NoError(t, err)
		assert.Regexp(t, `^[1-9][0-9]{5}$`, otp)
	}
}

func TestOTPExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		expired   bool
	}{
		{"future expiry", now.Add(time.Minute), false},
		{"exactly at expiry is still valid", now, false},
		{"one nanosecond past expiry", now.Add(-time.Nanosecond), true},
		{"long past expiry", now.Add(-24 * time.Hour), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, auth.OTPExpired(tt.expiresAt, now))
		})
	}
}
