package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const SessionCookieName = "session_id"

// EnsureSession issues a session token cookie if the browser does not
// carry one yet. Only the index page uses this; every other route
// expects the token to already exist.
func EnsureSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Cookies(SessionCookieName)
	if sessionId == "" {
		sessionId = uuid.NewString()
		ctx.Cookie(&fiber.Cookie{
			Name:     SessionCookieName,
			Value:    sessionId,
			Expires:  time.Now().Add(365 * 24 * time.Hour),
			HTTPOnly: true,
			SameSite: "Lax",
		})
	}
	ctx.Locals(SessionCookieName, sessionId)
	return ctx.Next()
}

// RequireSession rejects requests without a session token. Mirrors the
// "Session expired" failure the client polls against.
func RequireSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Cookies(SessionCookieName)
	if sessionId == "" {
		return NewApiError(fiber.StatusBadRequest, "Session expired")
	}
	ctx.Locals(SessionCookieName, sessionId)
	return ctx.Next()
}

// SessionId returns the token placed in Locals by the middleware above.
func SessionId(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals(SessionCookieName).(string); ok {
		return v
	}
	return ""
}
