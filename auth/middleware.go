package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const claimsContextKey = "auth_claims"

// Middleware validates the bearer token of incoming HTTP requests and
// stores the claims on the request context for downstream handlers.
func Middleware(tokens TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authorization token is missing"})
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims, err := tokens.ValidateToken(tokenStr)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// CallerID returns the authenticated participant id, or empty when the
// route is not behind the Middleware.
func CallerID(c echo.Context) string {
	claims, ok := c.Get(claimsContextKey).(*CustomClaims)
	if !ok {
		return ""
	}
	return claims.UserID
}

// RequireSelf enforces that the authenticated caller equals the :userId
// path parameter. Anything else is a 403 with no data leaked.
func RequireSelf(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if CallerID(c) != c.Param("userId") {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Forbidden"})
		}
		return next(c)
	}
}
