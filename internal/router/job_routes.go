package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/job-application-tracker/internal/handler"
	"github.com/iliyamo/job-application-tracker/internal/middleware"
	"github.com/iliyamo/job-application-tracker/internal/model"
)

// RegisterJobs registers the job board endpoints under /api.  Any
// authenticated user can browse; only Admins create postings.  The
// optional cache middleware (from the Redis response cache) is applied
// to the listing route, which is the hottest read in the system.
func RegisterJobs(e *echo.Echo, h *handler.JobHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	g := e.Group("/api", middleware.JWTAuth(jwtSecret))

	if cache != nil {
		g.GET("/jobs", h.List, cache)
	} else {
		g.GET("/jobs", h.List)
	}
	g.GET("/jobs/:id", h.GetByID)

	admin := e.Group("/api", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/jobs", h.Create)
}
