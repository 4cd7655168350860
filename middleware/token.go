package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Token returns an Echo middleware that gates mutating endpoints on the shared
// secret carried in the Token request header. A mismatch short-circuits with
// the API's standard failure body before any store access can happen.
func Token(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Header.Get("Token") != secret {
				return c.JSON(http.StatusOK, map[string]string{
					"status":  "failure",
					"message": "Unauthorized",
				})
			}
			return next(c)
		}
	}
}
