package handlers

import (
	"errors"
	"net/http"

	"github.com/campus-labs/lms-api/internal/problem"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UsersHandler handles user administration endpoints. All routes are
// Teacher only (route-gated).
type UsersHandler struct {
	users  repository.UserRepository
	logger *zap.Logger
}

// NewUsersHandler creates a new UsersHandler instance.
func NewUsersHandler(users repository.UserRepository, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{users: users, logger: logger}
}

// List returns a paged user listing with optional name/email filtering.
func (h *UsersHandler) List(c *gin.Context) {
	params, ok := parseListParams(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request",
			"Invalid pageNumber or pageSize.")
		return
	}

	users, total, err := h.users.List(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("failed to list users", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching users.")
		return
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, toUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, listResponse{
		Total:      total,
		PageNumber: params.Page,
		PageSize:   params.PageSize,
		Items:      items,
	})
}

// Get returns one user by id.
func (h *UsersHandler) Get(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		problem.Respond(c, http.StatusNotFound, "User not found",
			"The requested user was not found.")
		return
	}
	if err != nil {
		h.logger.Error("failed to load user", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching the user.")
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user by id.
func (h *UsersHandler) Delete(c *gin.Context) {
	user, err := h.users.FindByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		problem.Respond(c, http.StatusNotFound, "User not found",
			"The requested user was not found.")
		return
	}
	if err != nil {
		h.logger.Error("failed to load user", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching the user.")
		return
	}

	if err := h.users.Delete(c.Request.Context(), user); err != nil {
		h.logger.Error("failed to delete user", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while deleting the user.")
		return
	}

	c.Status(http.StatusNoContent)
}
