package middleware

import (
	"net/http"
	"strings"

	"storefront-be/internal/user"
	"storefront-be/internal/utils"

	"github.com/labstack/echo/v4"
)

// Auth parses an optional Bearer token and, when valid, stores the
// caller's identity in the request context. Requests without a token
// pass through anonymous so guest checkout keeps working; a token that
// is present but invalid is rejected outright.
func Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return next(c)
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		req := c.Request()
		ctx := utils.SetUserContext(req.Context(), claims.UserID, claims.Email, claims.Role)
		c.SetRequest(req.WithContext(ctx))

		return next(c)
	}
}

// RequireAuth rejects anonymous requests. It layers on top of Auth,
// which has already resolved the identity when a token was supplied.
func RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := utils.GetUserIDFromContext(c.Request().Context()); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}
		return next(c)
	}
}

// RequireAdmin rejects requests whose identity lacks the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !utils.IsAdmin(c.Request().Context()) {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}
