package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"observation-tracker/internal/auth"
	"observation-tracker/internal/errors"
	"observation-tracker/internal/user"
)

type UserProvider interface {
	GetUserByID(ctx context.Context, id uint64) (*user.User, error)
}

type Auth struct {
	UserService UserProvider
	CronSecret  string
}

// AuthMiddleWare verifies the bearer token and resolves the full user record
// into the context, so handlers always receive an authenticated User or abort.
func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		parsedToken, err := auth.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, err := auth.UserIDFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		usr, err := m.UserService.GetUserByID(ctx.Request.Context(), userID)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid User ID!", err))
			ctx.Abort()
			return
		}

		ctx.Set("user", usr)
		ctx.Set("user_id", usr.ID)
		ctx.Next()
	}
}

// CronAuthMiddleware guards internal maintenance routes with a shared secret
func (m *Auth) CronAuthMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token := strings.TrimPrefix(
			ctx.GetHeader("Authorization"),
			"Bearer ",
		)

		if token != m.CronSecret {
			ctx.Error(errors.Unauthorized("Unauthorized internal call!", nil))
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleWare
func CurrentUser(c *gin.Context) (*user.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	usr, ok := v.(*user.User)
	return usr, ok
}
