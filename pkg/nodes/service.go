package nodes

import (
	"context"
	"log/slog"
	"time"

	"github.com/skroutz/ganetimgr/pkg/cache"
	"github.com/skroutz/ganetimgr/pkg/model"
)

type clusterRegistry interface {
	FindAll(ctx context.Context) ([]model.Cluster, error)
	FindBySlug(ctx context.Context, clusterSlug string) (model.Cluster, error)
}

type aggregator interface {
	Aggregate(ctx context.Context, clusters []model.Cluster) Result
}

type detailQuerier interface {
	QueryClusterInfo(ctx context.Context, cluster model.Cluster) (model.ClusterDetail, error)
	QueryInstance(ctx context.Context, cluster model.Cluster, instance string) (model.InstanceDetail, error)
}

func NewService(logger *slog.Logger, clusters clusterRegistry, aggregator aggregator, backend detailQuerier, store cache.Store, nodeTTL, detailTTL time.Duration) *Service {
	return &Service{
		logger:     logger,
		clusters:   clusters,
		aggregator: aggregator,
		backend:    backend,
		store:      store,
		nodeTTL:    nodeTTL,
		detailTTL:  detailTTL,
	}
}

// Service composes the registry, the aggregator and the cache into the
// dashboard operations. A cache hit is served verbatim without touching any
// backend; a miss triggers one full aggregation pass.
type Service struct {
	logger     *slog.Logger
	clusters   clusterRegistry
	aggregator aggregator
	backend    detailQuerier
	store      cache.Store
	nodeTTL    time.Duration
	detailTTL  time.Duration
}

// Overview is the dashboard payload.
type Overview struct {
	Nodes       []model.Node           `json:"nodes"`
	BadClusters []model.Cluster        `json:"badClusters"`
	BadNodes    []string               `json:"badNodes"`
	Roles       map[model.NodeRole]int `json:"roles"`
}

// GetAllNodes returns the aggregated node view, recomputing it when the
// cache has expired. The optional cluster filter is applied to the aggregate
// afterwards, it never narrows the fan-out.
func (s *Service) GetAllNodes(ctx context.Context, clusterSlug string) (Overview, error) {
	result, err := s.cachedAggregate(ctx)
	if err != nil {
		return Overview{}, err
	}

	nodes := result.Nodes
	if clusterSlug != "" {
		filtered := make([]model.Node, 0, len(nodes))
		for _, node := range nodes {
			if node.Cluster == clusterSlug {
				filtered = append(filtered, node)
			}
		}
		nodes = filtered
	}

	roles := make(map[model.NodeRole]int)
	for _, node := range nodes {
		roles[node.Role]++
	}

	return Overview{
		Nodes:       nodes,
		BadClusters: result.BadClusters,
		BadNodes:    result.BadNodes,
		Roles:       roles,
	}, nil
}

func (s *Service) cachedAggregate(ctx context.Context) (Result, error) {
	var result Result
	hit, err := s.store.Get(cache.KeyAllClusterNodes, &result.Nodes)
	if err != nil {
		return Result{}, err
	}

	if hit {
		// the bad sets expire independently; a miss there simply means no
		// warning banner until the node list itself is recomputed
		if _, err := s.store.Get(cache.KeyBadClusters, &result.BadClusters); err != nil {
			return Result{}, err
		}
		if _, err := s.store.Get(cache.KeyBadNodes, &result.BadNodes); err != nil {
			return Result{}, err
		}
		return result, nil
	}

	clusters, err := s.clusters.FindAll(ctx)
	if err != nil {
		return Result{}, err
	}

	result = s.aggregator.Aggregate(ctx, clusters)

	if err := s.store.Set(cache.KeyAllClusterNodes, result.Nodes, s.nodeTTL); err != nil {
		return Result{}, err
	}
	if err := s.store.Set(cache.KeyBadClusters, result.BadClusters, s.nodeTTL); err != nil {
		return Result{}, err
	}
	if err := s.store.Set(cache.KeyBadNodes, result.BadNodes, s.nodeTTL); err != nil {
		return Result{}, err
	}

	return result, nil
}

// GetClusterDetails returns the detail payload of one cluster, cached under
// its own key with the longer detail TTL.
func (s *Service) GetClusterDetails(ctx context.Context, clusterSlug string) (model.ClusterDetail, error) {
	cluster, err := s.clusters.FindBySlug(ctx, clusterSlug)
	if err != nil {
		return model.ClusterDetail{}, err
	}

	key := cache.ClusterDetailKey(cluster.Slug)

	var detail model.ClusterDetail
	hit, err := s.store.Get(key, &detail)
	if err != nil {
		return model.ClusterDetail{}, err
	}
	if hit {
		return detail, nil
	}

	detail, err = s.backend.QueryClusterInfo(ctx, cluster)
	if err != nil {
		return model.ClusterDetail{}, err
	}

	if err := s.store.Set(key, detail, s.detailTTL); err != nil {
		return model.ClusterDetail{}, err
	}

	return detail, nil
}

// GetInstance returns one instance as its cluster reports it, uncached.
func (s *Service) GetInstance(ctx context.Context, clusterSlug, instance string) (model.InstanceDetail, error) {
	cluster, err := s.clusters.FindBySlug(ctx, clusterSlug)
	if err != nil {
		return model.InstanceDetail{}, err
	}

	return s.backend.QueryInstance(ctx, cluster, instance)
}

// EvictCluster drops the aggregated node view and the given cluster's detail
// payload. Rename activations call this before issuing the backend command so
// the dashboard never serves a stale identity for a renamed instance.
func (s *Service) EvictCluster(clusterSlug string) error {
	return s.store.Delete(
		cache.KeyAllClusterNodes,
		cache.KeyBadClusters,
		cache.KeyBadNodes,
		cache.ClusterDetailKey(clusterSlug),
	)
}

// ClearCaches drops every cache entry this service maintains. Administrative
// escape hatch, the TTLs handle routine staleness.
func (s *Service) ClearCaches(ctx context.Context) error {
	keys := []string{
		cache.KeyAllClusterNodes,
		cache.KeyBadClusters,
		cache.KeyBadNodes,
	}

	clusters, err := s.clusters.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, cluster := range clusters {
		keys = append(keys, cache.ClusterDetailKey(cluster.Slug))
	}

	return s.store.Delete(keys...)
}
