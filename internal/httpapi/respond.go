// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/gatehouse/gatehouse/internal/auth"
	"github.com/gatehouse/gatehouse/pkg/errutil"
)

// codeStatus maps service error codes to HTTP statuses. Codes not listed
// here are treated as internal errors.
var codeStatus = map[string]int{
	auth.CodeValidationFailed:   http.StatusBadRequest,
	auth.CodeAccountExists:      http.StatusBadRequest,
	auth.CodeAlreadyVerified:    http.StatusBadRequest,
	auth.CodeOTPInvalid:         http.StatusBadRequest,
	auth.CodeOTPExpired:         http.StatusBadRequest,
	auth.CodeInvalidCredentials: http.StatusUnauthorized,
	auth.CodeAuthRequired:       http.StatusUnauthorized,
	auth.CodeTokenInvalid:       http.StatusUnauthorized,
	auth.CodeTokenExpired:       http.StatusUnauthorized,
	auth.CodeAccountNotFound:    http.StatusNotFound,
	auth.CodeMailSendFailed:     http.StatusInternalServerError,
}

// codeMessage gives every mapped code one canonical client-facing message,
// so the same failure always produces the same response body regardless of
// which internal path raised it.
var codeMessage = map[string]string{
	auth.CodeValidationFailed:   "Missing required fields",
	auth.CodeAccountExists:      "Account already exists",
	auth.CodeAlreadyVerified:    "Account already verified",
	auth.CodeOTPInvalid:         "Invalid OTP",
	auth.CodeOTPExpired:         "OTP expired",
	auth.CodeInvalidCredentials: "Invalid credentials",
	auth.CodeAuthRequired:       "Not authorized. Login again",
	auth.CodeTokenInvalid:       "Not authorized. Login again",
	auth.CodeTokenExpired:       "Session expired. Login again",
	auth.CodeAccountNotFound:    "Account not found",
	auth.CodeMailSendFailed:     "Failed to send email",
}

// respondError translates a service error into the JSON error envelope.
// Unmapped codes become opaque 500s; the detail goes to the log only.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	code := errutil.Code(err)

	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}
	message, ok := codeMessage[code]
	if !ok {
		message = "Internal server error"
	}

	if status == http.StatusInternalServerError {
		errutil.LogError(logger, "request failed", err)
	}
	c.JSON(status, gin.H{"success": false, "message": message})
}

// outcomeLabel derives a low-cardinality metric label from a service error.
func outcomeLabel(err error) string {
	if code := errutil.Code(err); code != "" {
		return strings.ToLower(code)
	}
	return "error"
}

// noSessionErr covers the handler-level guard for a missing middleware
// account; it should not happen on correctly wired routes.
func noSessionErr() error {
	return oops.Code(auth.CodeAuthRequired).Errorf("no session account on request")
}
