// Package classification Ganeti Manager Service.
//
// Web service for managing Ganeti clusters and their instances
//
// Terms Of Service:
//
// there are no TOS at this moment, use at your own risk we take no responsibility
//
//    Version: 0.1.0
//    License: TODO
//    Contact: <admin@skroutz.gr> https://github.com/skroutz/ganetimgr
//
//    Consumes:
//      - application/json
//
//    Produces:
//      - application/json
//
//    SecurityDefinitions:
//      basicAuth:
//        type: basic
//      oauth2:
//        type: oauth2
//        tokenUrl: /not-valid--endpoint-is-served-from-the-identity-service
//        refreshUrl: /not-valid--endpoint-is-served-from-the-identity-service
//        flow: password
// swagger:meta
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-mail/mail"
	"github.com/skroutz/ganetimgr/internal/log"
	"github.com/skroutz/ganetimgr/internal/middleware"
	"github.com/skroutz/ganetimgr/internal/server"
	"github.com/skroutz/ganetimgr/pkg/action"
	"github.com/skroutz/ganetimgr/pkg/cache"
	"github.com/skroutz/ganetimgr/pkg/cluster"
	"github.com/skroutz/ganetimgr/pkg/config"
	"github.com/skroutz/ganetimgr/pkg/ganeti"
	"github.com/skroutz/ganetimgr/pkg/nodes"
	"github.com/skroutz/ganetimgr/pkg/storage"
	"github.com/skroutz/ganetimgr/pkg/user"
)

const pruneInterval = time.Hour

func main() {
	logger := slog.New(log.New(slog.NewJSONHandler(os.Stdout, nil)))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Service exited", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg := config.New()

	db, err := storage.NewDatabase(logger, cfg.Postgresql)
	if err != nil {
		return err
	}

	redisClient, err := storage.NewRedis(cfg.Redis.Host, cfg.Redis.Port)
	if err != nil {
		return err
	}
	store := cache.NewRedisStore(redisClient)

	dialer := mail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)

	backend := ganeti.NewClient(cfg.Aggregation.BackendTimeout)

	clusterRepository := cluster.NewRepository(db)
	clusterService := cluster.NewService(clusterRepository)
	clusterHandler := cluster.NewHandler(clusterService)

	userRepository := user.NewRepository(db)
	userService := user.NewService(userRepository)

	aggregator := nodes.NewAggregator(logger, backend, cfg.Aggregation.Workers)
	nodeService := nodes.NewService(logger, clusterService, aggregator, backend, store, cfg.Aggregation.NodeCacheTTL, cfg.Aggregation.DetailCacheTTL)
	nodeHandler := nodes.NewHandler(nodeService)

	actionRepository := action.NewRepository(db)
	actionService := action.NewService(logger, cfg.UIUrl, cfg.ActionValidity, actionRepository, backend, userService, nodeService, dialer)
	actionHandler := action.NewHandler(actionService, clusterService)

	userHandler := user.NewHandler(userService, actionService)

	pruner := action.NewPruner(logger, actionService, pruneInterval)
	go pruner.Prune(context.Background())

	authenticationMiddleware := middleware.NewAuthentication(cfg.TokenPublicKey, userService)
	authorizationMiddleware := middleware.NewAuthorization(logger)

	r := server.GetEngine(logger, cfg.BasePath, authenticationMiddleware, authorizationMiddleware, server.Handlers{
		Cluster: clusterHandler,
		Nodes:   nodeHandler,
		Action:  actionHandler,
		User:    userHandler,
	})
	return r.Run()
}
