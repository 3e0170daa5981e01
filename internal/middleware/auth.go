package middleware

import (
	"context"
	"net/http"

	"github.com/SauravS-01/eNoteBook/internal/models"
	"github.com/SauravS-01/eNoteBook/internal/types"
	"github.com/gin-gonic/gin"
)

// AuthenticatedUser is the resolved identity attached to the request
// context for the lifetime of one request.
type AuthenticatedUser struct {
	ID          uint
	DisplayName string
	Email       string
}

// SessionResolver resolves the identity bound to a session token.
type SessionResolver interface {
	Current(ctx context.Context, token string) (uint, bool, error)
}

// UserFinder loads the full user record for a resolved identity.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*models.User, error)
}

// RequireAuth gates protected routes: without an active session the
// request is redirected to the login entry point and aborted.
func RequireAuth(sessions SessionResolver, users UserFinder, cookieName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(cookieName)

		if err != nil || token == "" {
			ctx.Redirect(http.StatusFound, "/auth/login")
			ctx.Abort()
			return
		}

		userID, ok, err := sessions.Current(ctx.Request.Context(), token)

		if err != nil {
			ctx.HTML(http.StatusInternalServerError, "error/500", gin.H{})
			ctx.Abort()
			return
		}

		if !ok {
			ctx.Redirect(http.StatusFound, "/auth/login")
			ctx.Abort()
			return
		}

		user, err := users.FindByID(ctx.Request.Context(), userID)

		if err != nil {
			// Session points at a vanished user; treat as anonymous.
			ctx.Redirect(http.StatusFound, "/auth/login")
			ctx.Abort()
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:          user.ID,
			DisplayName: user.DisplayName,
			Email:       user.Email,
		})
		ctx.Set(types.ContextSessionKey, token)
		ctx.Next()
	}
}

// RequireGuest gates the login/register entry points: an authenticated
// user is sent to the landing page instead of re-entering them.
func RequireGuest(sessions SessionResolver, cookieName string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(cookieName)

		if err != nil || token == "" {
			ctx.Next()
			return
		}

		_, ok, err := sessions.Current(ctx.Request.Context(), token)

		if err == nil && ok {
			ctx.Redirect(http.StatusFound, "/dashboard")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}
