package handlers

import (
	"net/http"

	"github.com/KathiraveluLab/BHV/internal/gate"
	"github.com/KathiraveluLab/BHV/internal/model"
	"github.com/labstack/echo/v4"
)

const actorKey = "bhv.actor"

// Actor returns the authenticated identity for the request, or nil for
// anonymous traffic.
func Actor(c echo.Context) *model.Identity {
	actor, _ := c.Get(actorKey).(*model.Identity)
	return actor
}

// WithActor resolves the session cookie into an identity and attaches
// it to the request context. An absent or invalid session leaves the
// request anonymous; the gate decides what that means per route.
func WithActor(authService AuthService, tokens TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			identityID, err := tokens.ParseSession(cookie.Value)
			if err != nil {
				return next(c)
			}

			identity, err := authService.Fetch(identityID)
			if err != nil {
				return next(c)
			}

			c.Set(actorKey, identity)
			return next(c)
		}
	}
}

// Require evaluates the gate for the route's requirement and translates
// a denial into either a redirect or a structured error depending on
// what the request expects.
func Require(checker GateChecker, requirement gate.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := checker.Check(Actor(c), requirement)
			if decision.Allowed {
				return next(c)
			}
			return renderDenial(c, decision)
		}
	}
}

func renderDenial(c echo.Context, decision gate.Decision) error {
	if wantsJSON(c) {
		switch decision.Denial {
		case gate.DenialUnauthenticated:
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		case gate.DenialNotVerified:
			return c.JSON(http.StatusForbidden, map[string]string{"error": "email verification required"})
		default:
			return c.JSON(http.StatusForbidden, map[string]string{"error": "access denied"})
		}
	}
	return c.Redirect(http.StatusFound, decision.RedirectTo)
}
