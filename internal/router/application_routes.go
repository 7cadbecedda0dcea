package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/job-application-tracker/internal/handler"
	"github.com/iliyamo/job-application-tracker/internal/middleware"
	"github.com/iliyamo/job-application-tracker/internal/model"
)

// RegisterApplications registers the application endpoints under /api.
// Submission and the personal listing are applicant operations; the full
// listing and status transitions are staff operations (Admin and Bot
// Mimic), with per-job-type authority enforced by the state machine.
func RegisterApplications(e *echo.Echo, h *handler.ApplicationHandler, jwtSecret string) {
	auth := e.Group("/api", middleware.JWTAuth(jwtSecret))

	applicant := e.Group("/api", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleApplicant))
	applicant.POST("/applications", h.Create)
	applicant.POST("/applications/detailed", h.CreateDetailed)
	applicant.GET("/applications/my", h.ListMy)

	staff := e.Group("/api", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin, model.RoleBotMimic))
	staff.GET("/applications", h.ListAll)
	staff.PATCH("/applications/:id/status", h.UpdateStatus)

	// Detail and audit trail are visible to every role; applicants are
	// restricted to their own records inside the handler.
	auth.GET("/applications/:id", h.GetByID)
	auth.GET("/applications/:id/activities", h.Activities)
}

// RegisterBot registers the automation trigger, gated to the Bot Mimic.
func RegisterBot(e *echo.Echo, h *handler.BotHandler, jwtSecret string) {
	g := e.Group("/api/bot", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleBotMimic))
	g.POST("/automate", h.Automate)
}
