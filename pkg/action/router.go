package action

import (
	"github.com/gin-gonic/gin"
)

type AuthenticationMiddleware interface {
	TokenAuthentication(context *gin.Context)
}

type AuthorizationMiddleware interface {
	RequireViewInstances(context *gin.Context)
}

func Routes(r gin.IRouter, authenticationMiddleware AuthenticationMiddleware, authorizationMiddleware AuthorizationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticationMiddleware.TokenAuthentication)

	tokenAuthenticationRouter.GET("/actions/:token", handler.Resolve)
	tokenAuthenticationRouter.POST("/actions/:token", handler.Activate)

	viewRestrictedRouter := tokenAuthenticationRouter.Group("")
	viewRestrictedRouter.Use(authorizationMiddleware.RequireViewInstances)
	viewRestrictedRouter.POST("/clusters/:slug/instances/:instance/actions", handler.Request)
}
