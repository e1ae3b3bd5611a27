// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/mail"
)

// Service orchestrates registration, login, session resolution, and the
// OTP-driven verification and password-reset flows.
type Service struct {
	accounts AccountRepository
	hasher   PasswordHasher
	tokens   *TokenIssuer
	mailer   mail.Dispatcher
	logger   *slog.Logger
}

// NewService creates a new Service.
func NewService(accounts AccountRepository, hasher PasswordHasher, tokens *TokenIssuer, mailer mail.Dispatcher) (*Service, error) {
	if accounts == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("accounts repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("token issuer is required")
	}
	if mailer == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("mail dispatcher is required")
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		mailer:   mailer,
		logger:   slog.Default(),
	}, nil
}

// NewServiceWithLogger creates a Service with a specific logger.
func NewServiceWithLogger(accounts AccountRepository, hasher PasswordHasher, tokens *TokenIssuer, mailer mail.Dispatcher, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		return nil, oops.Code("AUTH_INVALID_DEPENDENCY").Errorf("logger is required")
	}
	svc, err := NewService(accounts, hasher, tokens, mailer)
	if err != nil {
		return nil, err
	}
	svc.logger = logger
	return svc, nil
}

// dummyPasswordHash is used when an account doesn't exist so that login
// still performs a bcrypt verification, keeping response time flat across
// unknown-email and wrong-password failures.
//
//nolint:gosec // G101: intentionally fake digest for timing uniformity, not a credential.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Register creates an unverified account, issues a session token, and sends
// a welcome mail. The mail send is awaited: if it fails, the whole operation
// fails even though the account has already been persisted (no rollback).
func (s *Service) Register(ctx context.Context, name, email, password string) (*Account, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", oops.Code(CodeValidationFailed).Errorf("name, email, and password are required")
	}

	_, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", oops.Code(CodeAccountExists).Errorf("account already exists")
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "check existing account").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	account := NewAccount(name, email, hash)
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	if err := s.mailer.SendWelcome(ctx, account.Email, account.Name); err != nil {
		// The account exists at this point; the failure still surfaces to
		// the caller. Known coupling inherited from the original flow.
		return nil, "", oops.Code(CodeMailSendFailed).
			With("operation", "send welcome mail").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "account registered", "account_id", account.ID.String())
	return account, token, nil
}

// Login authenticates an email/password pair and issues a session token.
// Unknown email and wrong password produce the same error so callers cannot
// enumerate accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*Account, string, error) {
	if email == "" || password == "" {
		return nil, "", oops.Code(CodeValidationFailed).Errorf("email and password are required")
	}

	account, lookupErr := s.accounts.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	accountExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, "", oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get account by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = account.PasswordHash
		accountExists = true
	}

	// Always run verification so timing does not reveal whether the email
	// was known.
	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		if !accountExists {
			return nil, "", invalidCredentials()
		}
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}
	if !accountExists || !valid {
		return nil, "", invalidCredentials()
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "issue session token").
			Wrap(err)
	}

	return account, token, nil
}

// invalidCredentials is the single, undifferentiated login failure.
func invalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid credentials")
}

// Authenticate resolves a session token to its account. It fails when the
// token is absent, malformed, tampered with, expired, or when the bound
// account no longer exists.
func (s *Service) Authenticate(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, oops.Code(CodeAuthRequired).Errorf("no session token provided")
	}

	accountID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code(CodeTokenInvalid).Errorf("account no longer exists")
		}
		return nil, oops.Code("AUTH_RESOLVE_FAILED").
			With("operation", "get account by id").
			Wrap(err)
	}
	return account, nil
}

// RequestVerifyOTP generates a six-digit verification code with a 24-hour
// expiry, persists it on the account, and mails it. Fails if the account is
// already verified.
func (s *Service) RequestVerifyOTP(ctx context.Context, accountID ulid.ULID) error {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return accountNotFound()
		}
		return oops.Code("AUTH_VERIFY_REQUEST_FAILED").
			With("operation", "get account by id").
			Wrap(err)
	}

	if account.Verified {
		return alreadyVerified()
	}

	otp, err := GenerateOTP()
	if err != nil {
		return oops.Code("AUTH_VERIFY_REQUEST_FAILED").
			With("operation", "generate otp").
			Wrap(err)
	}

	account.SetVerifyChallenge(otp, time.Now().Add(VerifyOTPExpiry))
	if err := s.accounts.Update(ctx, account); err != nil {
		return oops.Code("AUTH_VERIFY_REQUEST_FAILED").
			With("operation", "store otp").
			Wrap(err)
	}

	if err := s.mailer.SendVerifyOTP(ctx, account.Email, otp); err != nil {
		// The OTP stays stored; the caller sees the failure and may retry.
		return oops.Code(CodeMailSendFailed).
			With("operation", "send verification otp").
			Wrap(err)
	}
	return nil
}

// ConfirmVerify consumes a verification code. Checks run in order: account
// exists, not already verified, code matches, code not expired. On success
// the verified flag flips and both challenge fields clear in one persist.
func (s *Service) ConfirmVerify(ctx context.Context, accountID ulid.ULID, otp string) error {
	if otp == "" {
		return oops.Code(CodeValidationFailed).Errorf("otp is required")
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return accountNotFound()
		}
		return oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "get account by id").
			Wrap(err)
	}

	if account.Verified {
		return alreadyVerified()
	}
	if account.VerifyOTP == nil || *account.VerifyOTP != otp {
		return oops.Code(CodeOTPInvalid).Errorf("invalid OTP")
	}
	if OTPExpired(*account.VerifyOTPExpiresAt, time.Now()) {
		return oops.Code(CodeOTPExpired).Errorf("OTP expired")
	}

	account.Verified = true
	account.ClearVerifyChallenge()
	if err := s.accounts.Update(ctx, account); err != nil {
		return oops.Code("AUTH_VERIFY_FAILED").
			With("operation", "persist verification").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "account verified", "account_id", account.ID.String())
	return nil
}

// RequestResetOTP generates a six-digit reset code with a 15-minute expiry
// for the account with the given email and mails it. Requires no prior
// authentication: it is the recovery path for someone who cannot log in.
// Unknown email reports not-found, which reveals account existence; the
// original flow behaves the same way.
func (s *Service) RequestResetOTP(ctx context.Context, email string) error {
	if email == "" {
		return oops.Code(CodeValidationFailed).Errorf("email is required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return accountNotFound()
		}
		return oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	otp, err := GenerateOTP()
	if err != nil {
		return oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "generate otp").
			Wrap(err)
	}

	account.SetResetChallenge(otp, time.Now().Add(ResetOTPExpiry))
	if err := s.accounts.Update(ctx, account); err != nil {
		return oops.Code("AUTH_RESET_REQUEST_FAILED").
			With("operation", "store otp").
			Wrap(err)
	}

	if err := s.mailer.SendResetOTP(ctx, account.Email, otp); err != nil {
		return oops.Code(CodeMailSendFailed).
			With("operation", "send reset otp").
			Wrap(err)
	}
	return nil
}

// CheckResetOTP validates a reset code without consuming it. The same code
// remains valid for the subsequent ResetPassword call; this is a pre-check
// step only.
func (s *Service) CheckResetOTP(ctx context.Context, email, otp string) error {
	if email == "" || otp == "" {
		return oops.Code(CodeValidationFailed).Errorf("email and otp are required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return accountNotFound()
		}
		return oops.Code("AUTH_RESET_CHECK_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	return checkResetChallenge(account, otp, time.Now())
}

// ResetPassword replaces the credential after re-validating the reset code.
// The pre-check does not consume the code, so validation here is
// independent. On success the new hash and the cleared challenge fields are
// persisted in one call, consuming the code.
func (s *Service) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if email == "" || otp == "" || newPassword == "" {
		return oops.Code(CodeValidationFailed).Errorf("email, otp, and new password are required")
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return accountNotFound()
		}
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "get account by email").
			Wrap(err)
	}

	if err := checkResetChallenge(account, otp, time.Now()); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "hash new password").
			Wrap(err)
	}

	account.PasswordHash = hash
	account.ClearResetChallenge()
	if err := s.accounts.Update(ctx, account); err != nil {
		return oops.Code("AUTH_RESET_FAILED").
			With("operation", "persist new credential").
			Wrap(err)
	}

	s.logger.InfoContext(ctx, "password reset", "account_id", account.ID.String())
	return nil
}

// checkResetChallenge validates the stored reset code against a submitted
// one. Comparison is exact string equality.
func checkResetChallenge(account *Account, otp string, now time.Time) error {
	if account.ResetOTP == nil || *account.ResetOTP != otp {
		return oops.Code(CodeOTPInvalid).Errorf("invalid OTP")
	}
	if OTPExpired(*account.ResetOTPExpiresAt, now) {
		return oops.Code(CodeOTPExpired).Errorf("OTP expired")
	}
	return nil
}

func accountNotFound() error {
	return oops.Code(CodeAccountNotFound).Errorf("account not found")
}

func alreadyVerified() error {
	return oops.Code(CodeAlreadyVerified).Errorf("account already verified")
}
