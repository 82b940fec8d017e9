package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-labs/lms-api/internal/middleware"
	"github.com/campus-labs/lms-api/internal/models"
	"github.com/campus-labs/lms-api/internal/policy"
	"github.com/campus-labs/lms-api/internal/repository"
	"github.com/campus-labs/lms-api/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type mockActivityRepository struct {
	findByIDFunc func(ctx context.Context, id uint) (*models.Activity, error)
}

func (m *mockActivityRepository) FindByID(ctx context.Context, id uint) (*models.Activity, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockActivityRepository) List(ctx context.Context, params repository.ListParams) ([]models.Activity, int64, error) {
	return nil, 0, nil
}

func (m *mockActivityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return nil
}

func (m *mockActivityRepository) Update(ctx context.Context, activity *models.Activity) error {
	return nil
}

func (m *mockActivityRepository) Delete(ctx context.Context, activity *models.Activity) error {
	return nil
}

// TestGetActivity_ScopedThroughOwningModule checks that a student's access
// to an activity is decided by the course of the module that owns it.
func TestGetActivity_ScopedThroughOwningModule(t *testing.T) {
	activity := &models.Activity{
		ID:       3,
		Name:     "Homework 1",
		ModuleID: 5,
		Module:   &models.Module{ID: 5, CourseID: 7},
	}
	activities := &mockActivityRepository{
		findByIDFunc: func(ctx context.Context, id uint) (*models.Activity, error) {
			if id == activity.ID {
				return activity, nil
			}
			return nil, repository.ErrNotFound
		},
	}
	store := &enrollmentStore{users: map[string]*models.User{
		"s-1": {ID: "s-1", CourseID: uintPtr(7)},
		"s-9": {ID: "s-9", CourseID: uintPtr(9)},
	}}

	var claims *service.AccessClaims
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			middleware.SetClaims(c, claims)
		}
		c.Next()
	})
	h := NewActivitiesHandler(activities, policy.NewService(store), zap.NewNop())
	r.GET("/api/activities/:id", h.Get)

	tests := []struct {
		name       string
		path       string
		claims     *service.AccessClaims
		wantStatus int
	}{
		{"enrolled student reads", "/api/activities/3", studentClaims("s-1"), http.StatusOK},
		{"other student forbidden", "/api/activities/3", studentClaims("s-9"), http.StatusForbidden},
		{"teacher reads", "/api/activities/3", teacherClaims(), http.StatusOK},
		{"missing activity", "/api/activities/42", studentClaims("s-1"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims = tt.claims
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body %s", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
