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

// CoursesHandler handles course endpoints.
type CoursesHandler struct {
	courses  repository.CourseRepository
	policies *policy.Service
	logger   *zap.Logger
}

// NewCoursesHandler creates a new CoursesHandler instance.
func NewCoursesHandler(courses repository.CourseRepository, policies *policy.Service, logger *zap.Logger) *CoursesHandler {
	return &CoursesHandler{courses: courses, policies: policies, logger: logger}
}

// CourseRequest is the create/update payload for a course.
type CourseRequest struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
}

// CourseResponse is the course DTO returned to clients.
type CourseResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
}

// UserResponse is the user DTO returned in rosters and user listings.
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	CourseID  *uint  `json:"course_id"`
}

func toCourseResponse(course *models.Course) CourseResponse {
	return CourseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		StartDate:   course.StartDate,
	}
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		CourseID:  user.CourseID,
	}
}

// List godoc
// @Summary List courses
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Success 200 {object} listResponse
// @Failure 403 {object} problem.Details
// @Router /api/courses [get]
func (h *CoursesHandler) List(c *gin.Context) {
	params, ok := parseListParams(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request",
			"Invalid pageNumber or pageSize.")
		return
	}

	courses, total, err := h.courses.List(c.Request.Context(), params)
	if err != nil {
		h.logger.Error("failed to list courses", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching courses.")
		return
	}

	items := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		items = append(items, toCourseResponse(&courses[i]))
	}

	c.JSON(http.StatusOK, listResponse{
		Total:      total,
		PageNumber: params.Page,
		PageSize:   params.PageSize,
		Items:      items,
	})
}

// Get godoc
// @Summary Get a course by id
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} CourseResponse
// @Failure 403 {object} problem.Details
// @Failure 404 {object} problem.Details
// @Router /api/courses/{id} [get]
func (h *CoursesHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid course id.")
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	course, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}

	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionRead, target), "course") {
		return
	}

	c.JSON(http.StatusOK, toCourseResponse(course))
}

// Students godoc
// @Summary List the users enrolled in a course
// @Tags courses
// @Security BearerAuth
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {array} UserResponse
// @Failure 403 {object} problem.Details
// @Failure 404 {object} problem.Details
// @Router /api/courses/{id}/students [get]
func (h *CoursesHandler) Students(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid course id.")
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	_, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}

	verdict := policy.Evaluate(caller, policy.ActionListRoster, target)
	if denyForVerdict(c, verdict, "course") {
		return
	}

	users, err := h.courses.UsersForCourse(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("failed to fetch course roster", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching students.")
		return
	}

	roster := make([]UserResponse, 0, len(users))
	for i := range users {
		if verdict == policy.AllowFiltered && users[i].ID == caller.UserID {
			continue
		}
		roster = append(roster, toUserResponse(&users[i]))
	}

	c.JSON(http.StatusOK, roster)
}

// Create godoc
// @Summary Create a course
// @Tags courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CourseRequest true "Course"
// @Success 201 {object} CourseResponse
// @Failure 403 {object} problem.Details
// @Router /api/courses [post]
func (h *CoursesHandler) Create(c *gin.Context) {
	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}
	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionMutate, policy.Target{Exists: true}), "course") {
		return
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
	}
	if err := h.courses.Create(c.Request.Context(), course); err != nil {
		h.logger.Error("failed to create course", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while creating the course.")
		return
	}

	c.JSON(http.StatusCreated, toCourseResponse(course))
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body CourseRequest true "Course"
// @Success 200 {object} CourseResponse
// @Failure 403 {object} problem.Details
// @Failure 404 {object} problem.Details
// @Router /api/courses/{id} [put]
func (h *CoursesHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid course id.")
		return
	}

	var req CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	course, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}
	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionMutate, target), "course") {
		return
	}

	course.Name = req.Name
	course.Description = req.Description
	course.StartDate = req.StartDate
	if err := h.courses.Update(c.Request.Context(), course); err != nil {
		h.logger.Error("failed to update course", zap.Error(err), zap.Uint("course_id", id))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while updating the course.")
		return
	}

	c.JSON(http.StatusOK, toCourseResponse(course))
}

// Delete godoc
// @Summary Delete a course
// @Tags courses
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 204
// @Failure 403 {object} problem.Details
// @Failure 404 {object} problem.Details
// @Router /api/courses/{id} [delete]
func (h *CoursesHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		problem.Respond(c, http.StatusBadRequest, "Invalid request", "Invalid course id.")
		return
	}

	caller, ok := resolveCaller(c, h.policies, h.logger)
	if !ok {
		return
	}

	course, target, ok := h.loadTarget(c, id)
	if !ok {
		return
	}
	if denyForVerdict(c, policy.Evaluate(caller, policy.ActionMutate, target), "course") {
		return
	}

	if err := h.courses.Delete(c.Request.Context(), course); err != nil {
		h.logger.Error("failed to delete course", zap.Error(err), zap.Uint("course_id", id))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while deleting the course.")
		return
	}

	c.Status(http.StatusNoContent)
}

// loadTarget fetches the course and shapes it as a policy target. A
// missing course yields Exists=false rather than an error so existence is
// evaluated before enrollment.
func (h *CoursesHandler) loadTarget(c *gin.Context, id uint) (*models.Course, policy.Target, bool) {
	course, err := h.courses.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, policy.Target{Exists: false}, true
	}
	if err != nil {
		h.logger.Error("failed to load course", zap.Error(err), zap.Uint("course_id", id))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while fetching the course.")
		return nil, policy.Target{}, false
	}
	return course, policy.Target{Exists: true, CourseID: course.ID}, true
}
