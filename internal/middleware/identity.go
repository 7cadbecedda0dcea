package middleware

// identity.go holds helpers shared across middleware files.  The cache
// and rate limiter key requests per user when one is authenticated and
// fall back to "guest" otherwise.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// userID returns the authenticated user's ID as a string, or "guest"
// when the request carries no valid token.  JWTAuth stores the subject
// claim under "user_id"; numeric JSON claims decode as float64.
func userID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	}
	return "guest"
}
