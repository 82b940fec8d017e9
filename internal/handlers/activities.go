package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/campus-labs/lms-api/internal/models"
	"github.com/campus-labs/lms-api/internal/policy"
	"github.com/campus-labs/lms-api/internal/problem"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActivitiesHandler handles activity endpoints.
type ActivitiesHandler struct {
	activities repository.ActivityRepository
	policies   *policy.Service
	logger     *zap.Logger
}

// NewActivitiesHandler creates a new ActivitiesHandler instance.
func NewActivitiesHandler(activities repository.ActivityRepository, policies *policy.Service, logger *zap.Logger) *ActivitiesHandler {
	return &ActivitiesHandler{activities: activities, policies: policies, logger: logger}
}

// ActivityRequest is the create/update payload for an activity.
type ActivityRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
	TypeID      uint      `json:"type_id" binding:"required"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	ModuleID    uint      `json:"module_id" binding:"required"`
}

// ActivityResponse is the activity DTO returned to clients.
type ActivityResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Details     string    `json:"details"`
	TypeID      uint      `json:"type_id"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	ModuleID    uint      `json:"module_id"`
}

func toActivityResponse(activity *models.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          activity.ID,
		Name:        activity.Name,
		Description: activity.Description,
		Details:     activity.Details,
		TypeID:      activity.TypeID,
		StartDate:   activity.StartDate,
		EndDate:     activity.EndDate,
		ModuleID:    activity.ModuleID,
	}
}

// List returns a paged activity listing. Teacher only (route-gated).
func (h *ActivitiesHandler) List(c *gin.Context) {
	params, ok := parseListParams(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request",
			"Invalid pageNumber or pageSize.")
		return
	}

	activities, total, err := h.activities.List(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("failed to list activities", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching activities.")
		return
	}

	items := make([]ActivityResponse, 0, len(activities))
	for i := range activities {
		items = append(items, toActivityResponse(&activities[i]))
	}

	c.JSON(http.StatusOK, listResponse{
		Total:      total,
		PageNumber: params.Page,
		PageSize:   params.PageSize,
		Items:      items,
	})
}

// Get returns one activity; a student must be enrolled in the course that
// owns the activity's module.
func (h *ActivitiesHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid activity id.")
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	activity, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}

	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionRead, target), "activity") {
		return
	}

	c.JSON(http.StatusOK, toActivityResponse(activity))
}

// Create adds an activity to a module. Teacher only.
func (h *ActivitiesHandler) Create(c *gin.Context) {
	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}
	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionMutate, policy.Target{Exists: true}), "activity") {
		return
	}

	activity := &models.Activity{
		Name:        req.Name,
		Description: req.Description,
		Details:     req.Details,
		TypeID:      req.TypeID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		ModuleID:    req.ModuleID,
	}
	if err := h.activities.Create(c.Request.Context(), activity); err != nil {
		h.logger.Error("failed to create activity", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while creating the activity.")
		return
	}

	c.JSON(http.StatusCreated, toActivityResponse(activity))
}

// Update modifies an activity. Teacher only.
func (h *ActivitiesHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid activity id.")
		return
	}

	var req ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	activity, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}
	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionMutate, target), "activity") {
		return
	}

	activity.Name = req.Name
	activity.Description = req.Description
	activity.Details = req.Details
	activity.TypeID = req.TypeID
	activity.StartDate = req.StartDate
	activity.EndDate = req.EndDate
	activity.ModuleID = req.ModuleID
	if err := h.activities.Update(c.Request.Context(), activity); err != nil {
		h.logger.Error("failed to update activity", zap.Error(err), zap.Uint("activity_id", id))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while updating the activity.")
		return
	}

	c.JSON(http.StatusOK, toActivityResponse(activity))
}

// Delete removes an activity. Teacher only.
func (h *ActivitiesHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid activity id.")
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	activity, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}
	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionMutate, target), "activity") {
		return
	}

	if err := h.activities.Delete(c.Request.Context(), activity); err != nil {
		h.logger.Error("failed to delete activity", zap.Error(err), zap.Uint("activity_id", id))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while deleting the activity.")
		return
	}

	c.Status(http.StatusNoContent)
}

// loadTarget resolves the activity and the course that owns it through
// the preloaded module.
func (h *ActivitiesHandler) loadTarget(c *gin.Context, id uint) (*models.Activity, policy.Target, bool) {
	activity, err := h.activities.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, policy.Target{Exists: false}, true
	}
	if err != nil {
		h.logger.Error("failed to load activity", zap.Error(err), zap.Uint("activity_id", id))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching the activity.")
		return nil, policy.Target{}, false
	}

	target := policy.Target{Exists: true}
	if activity.Module != nil {
		target.CourseID = activity.Module.CourseID
	}
	return activity, target, true
}
