package server

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/skroutz/ganetimgr/internal/middleware"
	"github.com/skroutz/ganetimgr/pkg/action"
	"github.com/skroutz/ganetimgr/pkg/cluster"
	"github.com/skroutz/ganetimgr/pkg/health"
	"github.com/skroutz/ganetimgr/pkg/nodes"
	"github.com/skroutz/ganetimgr/pkg/user"
)

type Handlers struct {
	Cluster cluster.Handler
	Nodes   nodes.Handler
	Action  action.Handler
	User    user.Handler
}

func GetEngine(logger *slog.Logger, basePath string, authenticationMiddleware middleware.AuthenticationMiddleware, authorizationMiddleware middleware.AuthorizationMiddleware, handlers Handlers) *gin.Engine {
	r := gin.New()

	r.Use(middleware.CorrelationID())
	r.Use(middleware.RequestLogger(logger))
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("authorization")
	r.Use(cors.New(corsConfig))

	r.Use(middleware.ErrorHandler())

	router := r.Group(basePath)

	router.GET("/health", health.Health)

	cluster.Routes(router, authenticationMiddleware, authorizationMiddleware, handlers.Cluster)
	nodes.Routes(router, authenticationMiddleware, authorizationMiddleware, handlers.Nodes)
	action.Routes(router, authenticationMiddleware, authorizationMiddleware, handlers.Action)
	user.Routes(router, authenticationMiddleware, authorizationMiddleware, handlers.User)

	return r
}
