package middleware

import (
	"context"
	"crypto/rsa"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/skroutz/ganetimgr/internal/errdef"
	"github.com/skroutz/ganetimgr/pkg/model"
)

func NewAuthentication(publicKey *rsa.PublicKey, userService userService) AuthenticationMiddleware {
	return AuthenticationMiddleware{
		publicKey:   publicKey,
		userService: userService,
	}
}

type userService interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	SignIn(ctx context.Context, email, password string) (*model.User, error)
}

type AuthenticationMiddleware struct {
	publicKey   *rsa.PublicKey
	userService userService
}

// BasicAuthentication authenticates using the Authorization header username
// and password.
func (m AuthenticationMiddleware) BasicAuthentication(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		m.handleError(c, errdef.NewUnauthorized("invalid Authorization header format"))
		return
	}

	user, err := m.userService.SignIn(c.Request.Context(), email, password)
	if err != nil {
		m.handleError(c, err)
		return
	}

	m.setUser(c, user)
	c.Next()
}

// TokenAuthentication authenticates using a bearer token signed by the
// identity service. The user record is always resolved from the database so
// revoked permissions take effect immediately.
func (m AuthenticationMiddleware) TokenAuthentication(c *gin.Context) {
	token, err := jwt.ParseRequest(
		c.Request,
		jwt.WithKey(jwa.RS256, m.publicKey),
		jwt.WithHeaderKey("Authorization"),
	)
	if err != nil {
		_ = c.Error(errdef.NewUnauthorized("token not valid"))
		c.Abort()
		return
	}

	user, err := m.userService.FindByEmail(c.Request.Context(), token.Subject())
	if err != nil {
		if errdef.IsNotFound(err) {
			err = errdef.NewUnauthorized("unknown user %q", token.Subject())
		}
		_ = c.Error(err)
		c.Abort()
		return
	}

	// Extra precaution to ensure that no errors has occurred, and it's safe to call c.Next()
	if len(c.Errors.Errors()) > 0 {
		c.Abort()
		return
	}

	m.setUser(c, user)
	c.Next()
}

func (m AuthenticationMiddleware) setUser(c *gin.Context, user *model.User) {
	c.Set("user", user)
	ctx := model.NewContextWithUser(c.Request.Context(), user)
	c.Request = c.Request.WithContext(ctx)
}

func (m AuthenticationMiddleware) handleError(c *gin.Context, e error) {
	_ = c.AbortWithError(http.StatusUnauthorized, e)
}
