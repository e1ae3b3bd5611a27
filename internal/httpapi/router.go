// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterConfig carries the router's collaborators.
type RouterConfig struct {
	Auth        *AuthHandler
	User        *UserHandler
	Session     *SessionAuth
	Logger      *slog.Logger
	CORSOrigins []string

	// RecordRequest, when set, feeds the HTTP request metrics.
	RecordRequest func(route string, status int)
}

// NewRouter wires gin routes and middleware.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Logger))
	if cfg.RecordRequest != nil {
		r.Use(Metrics(cfg.RecordRequest))
	}
	if len(cfg.CORSOrigins) > 0 {
		r.Use(CORS(cfg.CORSOrigins))
	}

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "API working")
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", cfg.Auth.Register)
		authGroup.POST("/login", cfg.Auth.Login)
		authGroup.POST("/logout", cfg.Session.Require, cfg.Auth.Logout)

		authGroup.POST("/send-verify-otp", cfg.Session.Require, cfg.Auth.SendVerifyOTP)
		authGroup.POST("/verify-account", cfg.Session.Require, cfg.Auth.VerifyAccount)
		authGroup.GET("/is-auth", cfg.Session.Require, cfg.Auth.IsAuth)

		authGroup.POST("/send-reset-otp", cfg.Auth.SendResetOTP)
		authGroup.POST("/verify-reset-otp", cfg.Auth.VerifyResetOTP)
		authGroup.POST("/reset-password", cfg.Auth.ResetPassword)
	}

	userGroup := r.Group("/api/user")
	{
		userGroup.GET("/data", cfg.Session.Require, cfg.User.Data)
	}

	return r
}
