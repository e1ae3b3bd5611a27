// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package mail

import (
	"context"

	gomail "github.com/wneessen/go-mail"

	"github.com/samber/oops"
)

// SMTPDispatcher delivers mail over an authenticated SMTP relay.
type SMTPDispatcher struct {
	client *gomail.Client
	sender string
}

// SMTPConfig holds transport settings for the relay.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

// NewSMTPDispatcher creates a dispatcher connected to the configured relay.
func NewSMTPDispatcher(cfg SMTPConfig) (*SMTPDispatcher, error) {
	if cfg.Host == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("SMTP host is required")
	}
	if cfg.Sender == "" {
		return nil, oops.Code("MAIL_CONFIG_INVALID").Errorf("sender address is required")
	}

	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, oops.Code("MAIL_CLIENT_FAILED").
			With("host", cfg.Host).
			Wrap(err)
	}

	return &SMTPDispatcher{client: client, sender: cfg.Sender}, nil
}

// SendWelcome greets a freshly registered account.
func (d *SMTPDispatcher) SendWelcome(ctx context.Context, to, name string) error {
	return d.send(ctx, welcomeMessage(to, name))
}

// SendVerifyOTP delivers an email-verification code.
func (d *SMTPDispatcher) SendVerifyOTP(ctx context.Context, to, otp string) error {
	return d.send(ctx, verifyOTPMessage(to, otp))
}

// SendResetOTP delivers a password-reset code.
func (d *SMTPDispatcher) SendResetOTP(ctx context.Context, to, otp string) error {
	return d.send(ctx, resetOTPMessage(to, otp))
}

func (d *SMTPDispatcher) send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(d.sender); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "set sender").Wrap(err)
	}
	if err := m.To(msg.To); err != nil {
		return oops.Code("MAIL_SEND_FAILED").With("operation", "set recipient").Wrap(err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	if err := d.client.DialAndSendWithContext(ctx, m); err != nil {
		return oops.Code("MAIL_SEND_FAILED").
			With("subject", msg.Subject).
			Wrap(err)
	}
	return nil
}

// Compile-time interface check.
var _ Dispatcher = (*SMTPDispatcher)(nil)
