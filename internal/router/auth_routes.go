package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/job-application-tracker/internal/handler"
	"github.com/iliyamo/job-application-tracker/internal/middleware"
)

// RegisterAuth registers the authentication endpoints.  Register, login
// and refresh live under /api/auth and need no session; me and logout
// require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/api/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	protected := e.Group("/api/auth", middleware.JWTAuth(jwtSecret))
	protected.GET("/me", a.Me)
	protected.POST("/logout", a.Logout)
}
