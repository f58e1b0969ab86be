package middleware

import (
	"net/http"
	"strings"

	"github.com/eshop-labs/eshop-backend-go/utils"
	"github.com/labstack/echo/v4"
)

// AuthMiddleware validates the bearer token and stores the session claims on
// the request context under "claims", "uid" and "isAdmin".
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing authorization header"})
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid authorization header format"})
		}

		claims, err := utils.ValidateJWT(tokenParts[1])
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		c.Set("claims", claims)
		c.Set("uid", claims.UID)
		c.Set("isAdmin", claims.IsAdmin)
		return next(c)
	}
}

// AdminMiddleware rejects requests whose session lacks the admin flag. Must
// run after AuthMiddleware.
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		isAdmin, ok := c.Get("isAdmin").(bool)
		if !ok || !isAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Admin access required"})
		}
		return next(c)
	}
}
