// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/errutil"
)

func TestWelcomeMessage(t *testing.T) {
	msg := welcomeMessage("alice@example.com", "Alice")

	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Welcome to Our Service", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Alice")
}

func TestVerifyOTPMessage(t *testing.T) {
	msg := verifyOTPMessage("alice@example.com", "123456")

	assert.Equal(t, "Verify Your Account", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "123456")
	assert.Contains(t, msg.HTMLBody, "24 hours")
}

func TestResetOTPMessage(t *testing.T) {
	msg := resetOTPMessage("alice@example.com", "654321")

	assert.Equal(t, "Password Reset OTP", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "654321")
	assert.Contains(t, msg.HTMLBody, "15 minutes")
}

func TestNewSMTPDispatcher_Validation(t *testing.T) {
	t.Run("missing host", func(t *testing.T) {
		_, err := NewSMTPDispatcher(SMTPConfig{Sender: "noreply@example.com"})
		errutil.AssertErrorCode(t, err, "MAIL_CONFIG_INVALID")
	})

	t.Run("missing sender", func(t *testing.T) {
		_, err := NewSMTPDispatcher(SMTPConfig{Host: "smtp.example.com"})
		errutil.AssertErrorCode(t, err, "MAIL_CONFIG_INVALID")
	})

	t.Run("valid config", func(t *testing.T) {
		d, err := NewSMTPDispatcher(SMTPConfig{
			Host:     "smtp.example.com",
			Port:     587,
			Username: "user",
			Password: "pass",
			Sender:   "noreply@example.com",
		})
		require.NoError(t, err)
		assert.NotNil(t, d)
	})
}

func TestLogDispatcher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	d := NewLogDispatcher(logger)
	ctx := context.Background()

	require.NoError(t, d.SendWelcome(ctx, "alice@example.com", "Alice"))
	require.NoError(t, d.SendVerifyOTP(ctx, "alice@example.com", "123456"))
	require.NoError(t, d.SendResetOTP(ctx, "alice@example.com", "654321"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, "mail dispatched to log", entry["msg"])
	assert.Equal(t, "alice@example.com", entry["to"])
	assert.Equal(t, "Verify Your Account", entry["subject"])
	assert.Contains(t, entry["body"], "123456")
}

func TestNewLogDispatcher_NilLogger(t *testing.T) {
	d := NewLogDispatcher(nil)
	assert.NotNil(t, d.logger)
}
