package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtService *JWTService
}

func NewMiddleware(jwtService *JWTService) *Middleware {
	return &Middleware{jwtService: jwtService}
}

// RequireAdmin guards photographer endpoints with a valid bearer token.
func (m *Middleware) RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := m.jwtService.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyIsAdmin, true)
			c.Set(ContextKeyAdminEmail, claims.Email)
			return next(c)
		}
	}
}

// OptionalAdmin marks the session as admin when a valid bearer token is
// present but never rejects the request. Gallery mode derivation needs
// to know whether the photographer is browsing; clients carry no token.
func (m *Middleware) OptionalAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token, ok := bearerToken(c); ok {
				if claims, err := m.jwtService.Verify(token); err == nil {
					c.Set(ContextKeyIsAdmin, true)
					c.Set(ContextKeyAdminEmail, claims.Email)
				}
			}
			return next(c)
		}
	}
}

// IsAdmin reports whether the request authenticated as the photographer.
func IsAdmin(c echo.Context) bool {
	isAdmin, ok := c.Get(ContextKeyIsAdmin).(bool)
	return ok && isAdmin
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(headerAuthorization)
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", authHeaderParts)
	if len(parts) != authHeaderParts || !strings.EqualFold(parts[0], bearerScheme) {
		return "", false
	}

	return parts[1], true
}
