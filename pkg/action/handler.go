package action

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skroutz/ganetimgr/internal/handler"
	"github.com/skroutz/ganetimgr/pkg/model"
)

type clusterRegistry interface {
	FindBySlug(ctx context.Context, clusterSlug string) (model.Cluster, error)
}

func NewHandler(actionService *Service, clusterService clusterRegistry) Handler {
	return Handler{
		actionService:  actionService,
		clusterService: clusterService,
	}
}

type Handler struct {
	actionService  *Service
	clusterService clusterRegistry
}

type RequestActionRequest struct {
	Action model.ActionKind `json:"action" binding:"required"`
	Value  string           `json:"value"`
}

// Request deferred action
func (h Handler) Request(c *gin.Context) {
	// swagger:route POST /clusters/{slug}/instances/{instance}/actions requestAction
	//
	// Request action
	//
	// Request a reinstall, destroy or rename of an instance. The operation is
	// executed only after confirmation through the emailed link.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: InstanceAction
	//   400: Error
	//   401: Error
	//   403: Error
	//   404: Error
	//   415: Error
	var request RequestActionRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	cluster, err := h.clusterService.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	action, err := h.actionService.Request(c.Request.Context(), user, c.Param("instance"), &cluster, request.Action, request.Value)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, action)
}

// ConfirmationState describes a token for the confirmation page; every known
// token state renders, only unknown tokens 404.
type ConfirmationState struct {
	Status   string           `json:"status"`
	Action   model.ActionKind `json:"action"`
	Instance string           `json:"instance,omitempty"`
	Cluster  string           `json:"cluster,omitempty"`
	Value    string           `json:"value,omitempty"`
}

// Resolve confirmation state
func (h Handler) Resolve(c *gin.Context) {
	// swagger:route GET /actions/{token} resolveAction
	//
	// Resolve action
	//
	// The confirmation-page state of an activation key, without consuming it
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: ConfirmationState
	//   401: Error
	//   403: Error
	//   404: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	action, err := h.actionService.Resolve(c.Request.Context(), user, c.Param("token"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	state := ConfirmationState{
		Status:   h.actionService.Status(action),
		Action:   action.Action,
		Instance: action.Instance,
		Value:    action.Value,
	}
	if action.Cluster != nil {
		state.Cluster = action.Cluster.Slug
	}

	c.JSON(http.StatusOK, state)
}

// Activate consume an activation key
func (h Handler) Activate(c *gin.Context) {
	// swagger:route POST /actions/{token} activateAction
	//
	// Activate action
	//
	// Consume an activation key and perform the gated operation. At most one
	// of two concurrent confirmations succeeds.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: ActivationResult
	//   401: Error
	//   403: Error
	//   404: Error
	//   409: Error
	//   410: Error
	//   502: Error
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.actionService.Activate(c.Request.Context(), user, c.Param("token"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
