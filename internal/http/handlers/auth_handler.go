// Auth HTTP handlers.
//
// This file exposes the account endpoints:
//   - POST /register  (create account)
//   - POST /login     (verify credentials, return the user id)
//
// Handlers are transport-thin: they validate input, call the auth service,
// and translate results into HTTP responses. No session or token is issued;
// the client is trusted to remember the returned user id.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zurekai/zurekai/internal/domain"
	"github.com/zurekai/zurekai/internal/services"
)

// AuthService defines the account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type AuthService interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, username, password string) (*domain.User, error)
	// Login verifies credentials and returns the account's user id.
	Login(ctx context.Context, username, password string) (int64, error)
}

// CredentialsRequest is the JSON payload shared by register and login.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse acknowledges a successful registration.
type RegisterResponse struct {
	Success bool `json:"success"`
}

// LoginResponse carries the authenticated user's id.
type LoginResponse struct {
	UserID int64 `json:"userId"`
}

// Register creates an account. Duplicate usernames and malformed payloads
// both answer 400; the stored credential is always a bcrypt hash.
func (h *Handlers) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password required")
		return
	}

	_, err := h.authSvc.Register(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUsernameTaken):
			fail(c, http.StatusBadRequest, ErrCodeAlreadyExists, "username already taken")
		case errors.Is(err, services.ErrInvalidCredentials):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, RegisterResponse{Success: true})
}

// Login verifies a username/password pair. Unknown usernames and wrong
// passwords are indistinguishable from the outside: both answer 401 with the
// same envelope.
func (h *Handlers) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username and password required")
		return
	}

	userID, err := h.authSvc.Login(c.Request.Context(), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalid username or password")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, LoginResponse{UserID: userID})
}
