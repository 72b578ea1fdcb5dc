package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireSuperAdmin guards the /unions management API.  The client sends the
// operator password as a bearer token; the comparison runs over SHA-256
// digests with subtle.ConstantTimeCompare so neither length nor prefix
// matches leak through timing.
func RequireSuperAdmin(password string) echo.MiddlewareFunc {
	want := sha256.Sum256([]byte(password))
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			got := sha256.Sum256([]byte(strings.TrimPrefix(auth, "Bearer ")))
			if subtle.ConstantTimeCompare(want[:], got[:]) != 1 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
			}
			return next(c)
		}
	}
}
