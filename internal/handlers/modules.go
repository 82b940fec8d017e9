package handlers

import (
	"errors"
	"net/http"

	"github.com/campus-labs/lms-api/internal/models"
	"github.com/campus-labs/lms-api/internal/policy"
	"github.com/campus-labs/lms-api/internal/problem"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ModulesHandler handles module endpoints.
type ModulesHandler struct {
	modules  repository.ModuleRepository
	policies *policy.Service
	logger   *zap.Logger
}

// NewModulesHandler creates a new ModulesHandler instance.
func NewModulesHandler(modules repository.ModuleRepository, policies *policy.Service, logger *zap.Logger) *ModulesHandler {
	return &ModulesHandler{modules: modules, policies: policies, logger: logger}
}

// ModuleRequest is the create/update payload for a module.
type ModuleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CourseID    uint   `json:"course_id" binding:"required"`
}

// ModuleResponse is the module DTO returned to clients.
type ModuleResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CourseID    uint   `json:"course_id"`
}

func toModuleResponse(module *models.Module) ModuleResponse {
	return ModuleResponse{
		ID:          module.ID,
		Name:        module.Name,
		Description: module.Description,
		CourseID:    module.CourseID,
	}
}

// List returns a paged module listing. Teacher only (route-gated).
func (h *ModulesHandler) List(c *gin.Context) {
	params, ok := parseListParams(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request",
			"Invalid pageNumber or pageSize.")
		return
	}

	modules, total, err := h.modules.List(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("failed to list modules", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching modules.")
		return
	}

	items := make([]ModuleResponse, 0, len(modules))
	for i := range modules {
		items = append(items, toModuleResponse(&modules[i]))
	}

	c.JSON(http.StatusOK, listResponse{
		Total:      total,
		PageNumber: params.Page,
		PageSize:   params.PageSize,
		Items:      items,
	})
}

// Get returns one module; a student must be enrolled in its owning course.
func (h *ModulesHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid module id.")
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	module, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}

	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionRead, target), "module") {
		return
	}

	c.JSON(http.StatusOK, toModuleResponse(module))
}

// Create adds a module to a course. Teacher only.
func (h *ModulesHandler) Create(c *gin.Context) {
	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}
	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionMutate, policy.Target{Exists: true, CourseID: req.CourseID}), "module") {
		return
	}

	module := &models.Module{
		Name:        req.Name,
		Description: req.Description,
		CourseID:    req.CourseID,
	}
	if err := h.modules.Create(c.Request.Context(), module); err != nil {
		h.logger.Error("failed to create module", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while creating the module.")
		return
	}

	c.JSON(http.StatusCreated, toModuleResponse(module))
}

// Update modifies a module. Teacher only.
func (h *ModulesHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid module id.")
		return
	}

	var req ModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	module, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}
	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionMutate, target), "module") {
		return
	}

	module.Name = req.Name
	module.Description = req.Description
	module.CourseID = req.CourseID
	if err := h.modules.Update(c.Request.Context(), module); err != nil {
		h.logger.Error("failed to update module", zap.Error(err), zap.Uint("module_id", id))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while updating the module.")
		return
	}

	c.JSON(http.StatusOK, toModuleResponse(module))
}

// Delete removes a module. Teacher only.
func (h *ModulesHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid module id.")
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	module, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}
	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionMutate, target), "module") {
		return
	}

	if err := h.modules.Delete(c.Request.Context(), module); err != nil {
		h.logger.Error("failed to delete module", zap.Error(err), zap.Uint("module_id", id))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while deleting the module.")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ModulesHandler) loadTarget(c *gin.Context, id uint) (*models.Module, policy.Target, bool) {
	module, err := h.modules.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, policy.Target{Exists: false}, true
	}
	if err != nil {
		h.logger.Error("failed to load module", zap.Error(err), zap.Uint("module_id", id))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching the module.")
		return nil, policy.Target{}, false
	}
	return module, policy.Target{Exists: true, CourseID: module.CourseID}, true
}
