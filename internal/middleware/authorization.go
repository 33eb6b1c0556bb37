package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skroutz/ganetimgr/internal/handler"
)

func NewAuthorization(logger *slog.Logger) AuthorizationMiddleware {
	return AuthorizationMiddleware{
		logger: logger,
	}
}

type AuthorizationMiddleware struct {
	logger *slog.Logger
}

// RequireViewInstances gates the dashboard endpoints. Superusers and users
// holding the view-instances permission pass.
func (m AuthorizationMiddleware) RequireViewInstances(c *gin.Context) {
	u, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.AbortWithError(http.StatusUnauthorized, err)
		return
	}

	if !u.CanViewInstances() {
		m.logger.ErrorContext(c, "User tried to access instance view restricted endpoint", "user", u.ID)
		_ = c.AbortWithError(http.StatusForbidden, errors.New("instance view access denied"))
		return
	}

	c.Next()
}

// RequireAdministrator gates the registry and cache administration endpoints.
func (m AuthorizationMiddleware) RequireAdministrator(c *gin.Context) {
	u, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.AbortWithError(http.StatusUnauthorized, err)
		return
	}

	if !u.Administrator {
		m.logger.ErrorContext(c, "User tried to access administrator restricted endpoint", "user", u.ID)
		_ = c.AbortWithError(http.StatusUnauthorized, errors.New("administrator access denied"))
		return
	}

	// Extra precaution to ensure that no errors has occurred, and it's safe to call c.Next()
	if len(c.Errors.Errors()) > 0 {
		c.Abort()
		return
	}

	c.Next()
}
