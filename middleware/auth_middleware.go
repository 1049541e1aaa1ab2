package middleware

import (
	"strings"

	"rentals-api/domain"
	"rentals-api/services"
	"rentals-api/utils"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is where the authenticated user is stored on the request
// context.
const ContextUserKey = "currentUser"

// Authenticate validates the bearer token and attaches the resolved user
// to the request context for downstream authorization checks.
func Authenticate(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, utils.NewAuthError("You must be logged in"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortWithError(c, utils.NewAuthError("Invalid authorization header format"))
			return
		}

		user, err := authService.Authenticate(parts[1])
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireRole rejects requests whose authenticated user does not carry the
// given role. It must run after Authenticate.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWithError(c, utils.NewAuthError("You must be logged in"))
			return
		}

		if user.Role != role {
			abortWithError(c, utils.NewForbiddenError("You do not have permission to perform this action"))
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by Authenticate.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*domain.User)
	return user, ok
}

// abortWithError records the error for the error handler and stops the
// chain without writing a response body here.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
