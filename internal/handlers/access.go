package handlers

import (
	"net/http"

	"github.com/campus-labs/lms-api/internal/middleware"
	"github.com/campus-labs/lms-api/internal/policy"
	"github.com/campus-labs/lms-api/internal/problem"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// resolveCaller builds the policy caller for the current request. It
// aborts with the right response when no identity is available or the
// enrollment lookup fails.
func resolveCaller(c *gin.Context, policies *policy.Service, logger *zap.Logger) (policy.Caller, bool) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		problem.Respond(c, http.StatusUnauthorized, "Unauthorized",
			"Authentication is required for this resource.")
		return policy.Caller{}, false
	}

	caller, err := policies.CallerFromClaims(c.Request.Context(), claims)
	if err != nil {
		logger.Error("failed to resolve caller enrollment", zap.Error(err))
		problem.Respond(c, http.StatusInternalServerError, "Internal server error",
			"An error occurred while checking access.")
		return policy.Caller{}, false
	}
	return caller, true
}

// denyForVerdict writes the response for a denying verdict and reports
// whether the request was denied.
func denyForVerdict(c *gin.Context, verdict policy.Verdict, resource string) bool {
	switch verdict {
	case policy.DenyNotFound:
		problem.Respond(c, http.StatusNotFound, resource+" not found",
			"The requested "+resource+" was not found.")
		return true
	case policy.DenyForbidden:
		problem.Respond(c, http.StatusForbidden, "Forbidden",
			"You do not have access to this "+resource+".")
		return true
	}
	return false
}
