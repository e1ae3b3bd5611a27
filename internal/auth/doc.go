// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package auth implements the account state machine at the heart of
// Gatehouse: registration, login, session tokens, and the OTP-driven
// email-verification and password-reset flows.
//
// The package owns the Account entity and the rules that move it between
// unverified and verified, and that generate, consume, and expire one-time
// codes. Transport concerns (HTTP, cookies) live in internal/httpapi;
// persistence lives in internal/auth/postgres; mail delivery lives in
// internal/mail.
package auth
