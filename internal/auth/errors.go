// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// Stable error codes attached to oops errors. The HTTP layer maps these to
// status codes and response messages; see internal/httpapi.
const (
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeAccountExists      = "ACCOUNT_EXISTS"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeAuthRequired       = "AUTH_REQUIRED"
	CodeTokenInvalid       = "AUTH_TOKEN_INVALID"
	CodeTokenExpired       = "AUTH_TOKEN_EXPIRED"
	CodeAccountNotFound    = "ACCOUNT_NOT_FOUND"
	CodeAlreadyVerified    = "ACCOUNT_ALREADY_VERIFIED"
	CodeOTPInvalid         = "OTP_INVALID"
	CodeOTPExpired         = "OTP_EXPIRED"
	CodeMailSendFailed     = "MAIL_SEND_FAILED"
)
