// Package handlers contains HTTP request handlers for the LMS API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/campus-labs/lms-api/internal/limiter"
	"github.com/campus-labs/lms-api/internal/problem"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/campus-labs/lms-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	authService service.AuthService
	limiter     limiter.Limiter
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService, lim limiter.Limiter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: lim, logger: logger}
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Register a new user
// @Description Create a user with a Teacher or Student role
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Registration details"
// @Success 201
// @Failure 400 {object} problem.Details
// @Router /api/authentication/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Respond(c, http.StatusBadRequest, "User Registration Failed", err.Error())
		return
	}

	err := h.authService.Register(c.Request.Context(), &req)
	switch {
	case err == nil:
		c.Status(http.StatusCreated)
	case errors.Is(err, service.ErrInvalidRole), errors.Is(err, repository.ErrDuplicate):
		problem.Respond(c, http.StatusBadRequest, "User Registration Failed", err.Error())
	default:
		h.logger.Error("registration failed", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while registering the user.")
	}
}

// Login godoc
// @Summary Authenticate a user
// @Description Validate credentials and return an access/refresh token pair
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.TokenPair
// @Failure 401 {object} problem.Details
// @Failure 429 {object} problem.Details
// @Router /api/authentication/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	ctx := c.Request.Context()
	ip := c.ClientIP()

	allowed, err := h.limiter.Allow(ctx, req.Username, ip)
	if err != nil {
		h.logger.Error("login limiter unavailable", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while processing the login.")
		return
	}
	if !allowed {
		problem.Respond(c, http.StatusTooManyRequests, "Too Many Requests",
			"Too many failed login attempts. Try again later.")
		return
	}

	user, err := h.authService.ValidateCredentials(ctx, req.Username, req.Password)
	if err != nil {
		if _, ferr := h.limiter.Failure(ctx, req.Username, ip); ferr != nil {
			h.logger.Warn("failed to record login failure", zap.Error(ferr))
		}
		problem.Respond(c, http.StatusUnauthorized, "Unauthorized Access",
			"Invalid login attempt. Please check your credentials and try again.")
		return
	}

	if err := h.limiter.Success(ctx, req.Username, ip); err != nil {
		h.logger.Warn("failed to reset login failures", zap.Error(err))
	}

	pair, err := h.authService.IssueToken(ctx, user, true)
	if err != nil {
		h.logger.Error("token issuance failed", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while issuing tokens.")
		return
	}

	c.JSON(http.StatusOK, pair)
}

// Refresh godoc
// @Summary Refresh an access token
// @Description Exchange an expired access token and its refresh token for a new pair
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body service.TokenPair true "Expired token pair"
// @Success 200 {object} service.TokenPair
// @Failure 401 {object} problem.Details
// @Router /api/authentication/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var pair service.TokenPair
	if err := c.ShouldBindJSON(&pair); err != nil {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	refreshed, err := h.authService.RefreshToken(c.Request.Context(), &pair)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) || errors.Is(err, service.ErrInvalidRefreshRequest) {
			// One undifferentiated rejection; never reveal which check failed.
			problem.Respond(c, http.StatusUnauthorized, "Unauthorized",
				"The token pair has invalid values.")
			return
		}
		h.logger.Error("token refresh failed", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while refreshing tokens.")
		return
	}

	c.JSON(http.StatusOK, refreshed)
}
