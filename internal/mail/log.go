// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package mail

import (
	"context"
	"log/slog"
)

// LogDispatcher writes mail to the log instead of sending it. Used in
// development when no SMTP relay is configured.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that logs instead of sending.
// If logger is nil, the default logger is used.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

// SendWelcome logs a welcome message.
func (d *LogDispatcher) SendWelcome(ctx context.Context, to, name string) error {
	return d.log(ctx, welcomeMessage(to, name))
}

// SendVerifyOTP logs a verification code message.
func (d *LogDispatcher) SendVerifyOTP(ctx context.Context, to, otp string) error {
	return d.log(ctx, verifyOTPMessage(to, otp))
}

// SendResetOTP logs a password-reset code message.
func (d *LogDispatcher) SendResetOTP(ctx context.Context, to, otp string) error {
	return d.log(ctx, resetOTPMessage(to, otp))
}

func (d *LogDispatcher) log(ctx context.Context, msg Message) error {
	d.logger.InfoContext(ctx, "mail dispatched to log",
		"to", msg.To,
		"subject", msg.Subject,
		"body", msg.HTMLBody,
	)
	return nil
}

// Compile-time interface check.
var _ Dispatcher = (*LogDispatcher)(nil)
