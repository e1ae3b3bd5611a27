// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package mail delivers account notifications: welcome messages and the
// one-time codes for the verification and password-reset flows.
package mail

import (
	"context"
	"fmt"
)

// Dispatcher sends account mail. Callers await the send: a delivery failure
// fails the operation that triggered it.
type Dispatcher interface {
	// SendWelcome greets a freshly registered account.
	SendWelcome(ctx context.Context, to, name string) error

	// SendVerifyOTP delivers an email-verification code.
	SendVerifyOTP(ctx context.Context, to, otp string) error

	// SendResetOTP delivers a password-reset code.
	SendResetOTP(ctx context.Context, to, otp string) error
}

// Message is a rendered mail ready for transport.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

func welcomeMessage(to, name string) Message {
	return Message{
		To:      to,
		Subject: "Welcome to Our Service",
		HTMLBody: fmt.Sprintf(
			"<h1>Welcome %s!</h1><p>Your account has been successfully created.</p>", name),
	}
}

func verifyOTPMessage(to, otp string) Message {
	return Message{
		To:      to,
		Subject: "Verify Your Account",
		HTMLBody: fmt.Sprintf(
			"<p>Your verification code is: <strong>%s</strong></p><p>This code will expire in 24 hours.</p>", otp),
	}
}

func resetOTPMessage(to, otp string) Message {
	return Message{
		To:      to,
		Subject: "Password Reset OTP",
		HTMLBody: fmt.Sprintf(
			"<p>Your password reset code is: <strong>%s</strong></p><p>This code will expire in 15 minutes.</p>", otp),
	}
}
