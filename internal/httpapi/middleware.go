// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/gatehouse/gatehouse/internal/auth"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

const accountKey = "account"

// SessionAuth resolves the session cookie to an account and aborts with 401
// when the cookie is absent, the token invalid or expired, or the account
// gone. The resolved account is attached to the request context.
type SessionAuth struct {
	service *auth.Service
	logger  *slog.Logger
}

// NewSessionAuth creates the session middleware.
func NewSessionAuth(service *auth.Service, logger *slog.Logger) *SessionAuth {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionAuth{service: service, logger: logger}
}

// Require is the gin middleware enforcing an authenticated session.
func (m *SessionAuth) Require(c *gin.Context) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		// Missing cookie: same failure as an empty token.
		token = ""
	}

	account, err := m.service.Authenticate(c.Request.Context(), token)
	if err != nil {
		c.Abort()
		respondError(c, m.logger, err)
		return
	}

	c.Set(accountKey, account)
	c.Next()
}

// CurrentAccount returns the account resolved by SessionAuth.Require.
func CurrentAccount(c *gin.Context) (*auth.Account, bool) {
	value, ok := c.Get(accountKey)
	if !ok {
		return nil, false
	}
	account, ok := value.(*auth.Account)
	return account, ok
}

// RequestLogger logs each request with route, status, and duration.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		c.Next()
		logger.InfoContext(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}

// Metrics counts each request by route and status.
func Metrics(record func(route string, status int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		record(route, c.Writer.Status())
	}
}
