package nodes

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/skroutz/ganetimgr/pkg/model"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one fan-out pass over every registered cluster. A
// cluster either contributes its nodes or one entry in BadClusters, never
// both. BadNodes holds the names of nodes reporting the offline role, which
// is a content classification rather than a call failure.
type Result struct {
	Nodes       []model.Node    `json:"nodes"`
	BadClusters []model.Cluster `json:"badClusters"`
	BadNodes    []string        `json:"badNodes"`
}

type nodeLister interface {
	QueryNodes(ctx context.Context, cluster model.Cluster) ([]model.Node, error)
}

func NewAggregator(logger *slog.Logger, backend nodeLister, workers int) Aggregator {
	return Aggregator{
		logger:  logger,
		backend: backend,
		workers: workers,
	}
}

// Aggregator fans out node queries over the registry with bounded
// parallelism. One unreachable or erroring cluster degrades the result
// instead of failing the pass.
type Aggregator struct {
	logger  *slog.Logger
	backend nodeLister
	workers int
}

// Aggregate visits every cluster and partitions the outcome into nodes,
// unreachable clusters and offline nodes. No ordering is guaranteed across
// clusters; within one cluster the backend's node order is preserved.
func (a Aggregator) Aggregate(ctx context.Context, clusters []model.Cluster) Result {
	result := Result{
		Nodes:       []model.Node{},
		BadClusters: []model.Cluster{},
		BadNodes:    []string{},
	}

	var mu sync.Mutex
	var group errgroup.Group
	group.SetLimit(a.workers)

	for _, cluster := range clusters {
		group.Go(func() error {
			nodes, err := a.queryNodes(ctx, cluster)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				a.logger.ErrorContext(ctx, "Cluster is unreachable", "cluster", cluster.Slug, "error", err)
				result.BadClusters = append(result.BadClusters, cluster)
				return nil
			}

			result.Nodes = append(result.Nodes, nodes...)
			for _, node := range nodes {
				if node.Role == model.NodeRoleOffline {
					result.BadNodes = append(result.BadNodes, node.Name)
				}
			}
			return nil
		})
	}

	// tasks never return an error, a failing cluster only degrades the result
	_ = group.Wait()

	return result
}

// queryNodes shields the pass from a misbehaving backend implementation; a
// panic inside one cluster's query is converted into that cluster's failure.
func (a Aggregator) queryNodes(ctx context.Context, cluster model.Cluster) (nodes []model.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			nodes = nil
			err = fmt.Errorf("panic while querying cluster %q: %v", cluster.Slug, r)
		}
	}()

	return a.backend.QueryNodes(ctx, cluster)
}
