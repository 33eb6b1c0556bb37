package nodes

import (
	"github.com/gin-gonic/gin"
)

type AuthenticationMiddleware interface {
	TokenAuthentication(context *gin.Context)
}

type AuthorizationMiddleware interface {
	RequireViewInstances(context *gin.Context)
	RequireAdministrator(context *gin.Context)
}

func Routes(r gin.IRouter, authenticationMiddleware AuthenticationMiddleware, authorizationMiddleware AuthorizationMiddleware, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(authenticationMiddleware.TokenAuthentication)

	viewRestrictedRouter := tokenAuthenticationRouter.Group("")
	viewRestrictedRouter.Use(authorizationMiddleware.RequireViewInstances)
	viewRestrictedRouter.GET("/nodes", handler.ListNodes)
	viewRestrictedRouter.GET("/clusters/:slug/details", handler.ClusterDetails)
	viewRestrictedRouter.GET("/clusters/:slug/instances/:instance", handler.FindInstance)

	administratorRestrictedRouter := tokenAuthenticationRouter.Group("")
	administratorRestrictedRouter.Use(authorizationMiddleware.RequireAdministrator)
	administratorRestrictedRouter.DELETE("/caches", handler.ClearCaches)
}
