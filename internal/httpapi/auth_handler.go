// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

// Package httpapi exposes the authentication service over HTTP with JSON
// bodies and a cookie-borne session token.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// AuthHandler serves the /api/auth endpoints.
type AuthHandler struct {
	service *auth.Service
	logger  *slog.Logger

	// secureCookies marks session cookies Secure. On in production, off in
	// development so plain-HTTP local setups keep working.
	secureCookies bool

	// recordOutcome, when set, feeds the auth operation metrics.
	recordOutcome func(operation, outcome string)
}

// NewAuthHandler creates the auth endpoint handler.
func NewAuthHandler(service *auth.Service, logger *slog.Logger, secureCookies bool, recordOutcome func(operation, outcome string)) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if recordOutcome == nil {
		recordOutcome = func(string, string) {}
	}
	return &AuthHandler{
		service:       service,
		logger:        logger,
		secureCookies: secureCookies,
		recordOutcome: recordOutcome,
	}
}

func (h *AuthHandler) outcome(operation string, err error) {
	if err == nil {
		h.recordOutcome(operation, "ok")
		return
	}
	h.recordOutcome(operation, outcomeLabel(err))
}

// userPayload is the transport-safe account summary carried on successful
// register, login, and is-auth responses. Credential and challenge fields
// never leave the service.
func userPayload(account *auth.Account) gin.H {
	return gin.H{
		"id":                account.ID.String(),
		"name":              account.Name,
		"email":             account.Email,
		"isAccountVerified": account.Verified,
	}
}

// setSessionCookie installs the session token for the token's full validity
// window. HttpOnly keeps scripts away from it; SameSite=Strict keeps
// cross-site requests from carrying it.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, token,
		int(auth.SessionTokenValidity.Seconds()), "/", "", h.secureCookies, true)
}

// clearSessionCookie expires the session cookie with attributes matching the
// ones it was set with, otherwise browsers keep the original.
func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", h.secureCookies, true)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordOutcome("register", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	account, token, err := h.service.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	h.outcome("register", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": userPayload(account)})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordOutcome("login", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	account, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	h.outcome("login", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userPayload(account)})
}

// Logout handles POST /api/auth/logout. It requires a valid session and
// clears the cookie; the token itself stays valid until natural expiry
// because sessions are stateless.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	h.recordOutcome("logout", "ok")
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// SendVerifyOTP handles POST /api/auth/send-verify-otp for the session's
// account.
func (h *AuthHandler) SendVerifyOTP(c *gin.Context) {
	account, ok := CurrentAccount(c)
	if !ok {
		h.recordOutcome("send_verify_otp", "no_session")
		respondError(c, h.logger, noSessionErr())
		return
	}

	err := h.service.RequestVerifyOTP(c.Request.Context(), account.ID)
	h.outcome("send_verify_otp", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification OTP sent to email"})
}

// VerifyAccount handles POST /api/auth/verify-account for the session's
// account.
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	account, ok := CurrentAccount(c)
	if !ok {
		h.recordOutcome("verify_account", "no_session")
		respondError(c, h.logger, noSessionErr())
		return
	}

	var req struct {
		OTP string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordOutcome("verify_account", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	err := h.service.ConfirmVerify(c.Request.Context(), account.ID, req.OTP)
	h.outcome("verify_account", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully"})
}

// IsAuth handles GET /api/auth/is-auth. Reaching the handler means the
// session middleware already resolved a live account.
func (h *AuthHandler) IsAuth(c *gin.Context) {
	account, ok := CurrentAccount(c)
	if !ok {
		respondError(c, h.logger, noSessionErr())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": userPayload(account)})
}

// SendResetOTP handles POST /api/auth/send-reset-otp. No session required:
// this is the recovery path for someone locked out of their account.
func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordOutcome("send_reset_otp", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	err := h.service.RequestResetOTP(c.Request.Context(), req.Email)
	h.outcome("send_reset_otp", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP sent to your email"})
}

// VerifyResetOTP handles POST /api/auth/verify-reset-otp. It validates the
// code without consuming it so a client can check before showing the new
// password form.
func (h *AuthHandler) VerifyResetOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordOutcome("verify_reset_otp", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	err := h.service.CheckResetOTP(c.Request.Context(), req.Email, req.OTP)
	h.outcome("verify_reset_otp", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "OTP verified"})
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Email       string `json:"email"`
		OTP         string `json:"otp"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.recordOutcome("reset_password", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Missing required fields"})
		return
	}

	err := h.service.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword)
	h.outcome("reset_password", err)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password has been reset successfully"})
}
