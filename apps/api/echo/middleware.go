package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// personMiddleware stores the caller's core.Person in the context.
// Tokens from another issuer are rejected when issuer is set.
func personMiddleware(issuer string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if issuer != "" && !claims.VerifyIssuer(issuer, true) {
				return errUnauthorized
			}
			ctx.Set(contextPersonKey, claims.Person())
			return next(ctx)
		}
	}
}

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			p, err := getContextPerson(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context person")
			}
			if p.IsAdmin() && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// staffMiddleware lets teachers and admins through.
func staffMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		p, err := getContextPerson(ctx)
		if err != nil {
			return errors.Wrap(err, "getting context person")
		}
		if p.IsStaff() {
			return next(ctx)
		}
		return errHttpForbidden
	}
}
