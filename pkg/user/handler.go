package user

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skroutz/ganetimgr/internal/handler"
	"github.com/skroutz/ganetimgr/pkg/model"
)

func NewHandler(userService userService, actionService actionService) Handler {
	return Handler{
		userService:   userService,
		actionService: actionService,
	}
}

type Handler struct {
	userService   userService
	actionService actionService
}

type userService interface {
	SignUp(ctx context.Context, email string, password string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	FindById(ctx context.Context, id uint) (*model.User, error)
	UpdateEmail(ctx context.Context, id uint, email string) error
}

type actionService interface {
	RequestEmailChange(ctx context.Context, user *model.User, newEmail string) (*model.InstanceAction, error)
}

type CreateUserRequest struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,gte=16,lte=128"`
	Administrator bool   `json:"administrator"`
	ViewInstances bool   `json:"viewInstances"`
}

// Create user
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /users createUser
	//
	// Create user
	//
	// Create a user. Only administrators can create users.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: User
	//   400: Error
	//   401: Error
	//   409: Error
	//   415: Error
	var request CreateUserRequest

	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), request.Email, request.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if request.Administrator || request.ViewInstances {
		user.Administrator = request.Administrator
		user.ViewInstances = request.ViewInstances
		if err := h.userService.Save(c.Request.Context(), user); err != nil {
			_ = c.Error(err)
			return
		}
	}

	c.JSON(http.StatusCreated, user)
}

// Me user
func (h Handler) Me(c *gin.Context) {
	// swagger:route GET /me me
	//
	// User details
	//
	// Current user details
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   401: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	current, err := h.userService.FindById(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, current)
}

type ChangeEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ChangeEmail user
func (h Handler) ChangeEmail(c *gin.Context) {
	// swagger:route POST /me/email changeEmail
	//
	// Change email
	//
	// Change the current user's email address. A user without an address gets
	// it set directly; otherwise a confirmation link is mailed and the change
	// only takes effect once it is followed.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: User
	//   202: InstanceAction
	//   400: Error
	//   401: Error
	//   415: Error
	var request ChangeEmailRequest

	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if user.Email == "" {
		if err := h.userService.UpdateEmail(c.Request.Context(), user.ID, request.Email); err != nil {
			_ = c.Error(err)
			return
		}
		user.Email = request.Email
		c.JSON(http.StatusOK, user)
		return
	}

	action, err := h.actionService.RequestEmailChange(c.Request.Context(), user, request.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusAccepted, action)
}
