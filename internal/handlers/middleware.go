package handlers

import (
	"strings"

	"github.com/labstack/echo/v4"
	"uk.co.dudmesh.noticeboard/internal/model"
	"uk.co.dudmesh.noticeboard/internal/token"
)

const sessionContextKey = "session"

// Authenticate guards a route group. It reads the bearer token from the
// Authorization header, verifies the signature and attaches the claims to
// the request context. There is no store access: the claims are trusted
// as-is until the token expires.
func Authenticate(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return respondError(c, model.ErrorMissingToken)
			}

			scheme, bearerToken, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || bearerToken == "" {
				return respondError(c, model.ErrorMissingToken)
			}

			session, err := issuer.Verify(bearerToken)
			if err != nil {
				return respondError(c, err)
			}

			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

// RequireAdmin composes with Authenticate and additionally rejects
// non-admin sessions.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFrom(c)
			if session == nil {
				return respondError(c, model.ErrorMissingToken)
			}
			if session.Role != model.RoleAdmin {
				return respondError(c, model.ErrorForbidden)
			}
			return next(c)
		}
	}
}

func SessionFrom(c echo.Context) *token.SessionClaims {
	session, _ := c.Get(sessionContextKey).(*token.SessionClaims)
	return session
}
