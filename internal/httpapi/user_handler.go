// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the /api/user endpoints.
type UserHandler struct {
	logger *slog.Logger
}

// NewUserHandler creates the user endpoint handler.
func NewUserHandler(logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{logger: logger}
}

// Data handles GET /api/user/data. It returns the transport-safe profile of
// the session's account; credential and challenge fields never leave the
// service.
func (h *UserHandler) Data(c *gin.Context) {
	account, ok := CurrentAccount(c)
	if !ok {
		respondError(c, h.logger, noSessionErr())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userData": gin.H{
			"name":              account.Name,
			"isAccountVerified": account.Verified,
		},
	})
}
