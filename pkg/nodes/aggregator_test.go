package nodes

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/skroutz/ganetimgr/internal/errdef"
	"github.com/skroutz/ganetimgr/pkg/model"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
	queryNodes  func(ctx context.Context, cluster model.Cluster) ([]model.Node, error)
}

func (f *fakeBackend) QueryNodes(ctx context.Context, cluster model.Cluster) ([]model.Node, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	return f.queryNodes(ctx, cluster)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func clusterNode(cluster, name string, role model.NodeRole) model.Node {
	return model.Node{Name: name, Cluster: cluster, Role: role}
}

func TestAggregator_AllClustersHealthy(t *testing.T) {
	backend := &fakeBackend{
		queryNodes: func(_ context.Context, cluster model.Cluster) ([]model.Node, error) {
			return []model.Node{
				clusterNode(cluster.Slug, cluster.Slug+"-node1", model.NodeRoleMaster),
				clusterNode(cluster.Slug, cluster.Slug+"-node2", model.NodeRoleRegular),
			}, nil
		},
	}
	aggregator := NewAggregator(discardLogger(), backend, 10)

	clusters := []model.Cluster{{Slug: "alpha"}, {Slug: "beta"}, {Slug: "gamma"}}
	result := aggregator.Aggregate(context.Background(), clusters)

	require.Empty(t, result.BadClusters)
	require.Empty(t, result.BadNodes)
	require.Len(t, result.Nodes, 6)

	bySlug := make(map[string]int)
	for _, node := range result.Nodes {
		bySlug[node.Cluster]++
	}
	require.Equal(t, map[string]int{"alpha": 2, "beta": 2, "gamma": 2}, bySlug)
}

func TestAggregator_FailingClusterDegradesResult(t *testing.T) {
	backend := &fakeBackend{
		queryNodes: func(_ context.Context, cluster model.Cluster) ([]model.Node, error) {
			if cluster.Slug == "broken" {
				return nil, errdef.NewUnavailable("cluster %q is unreachable", cluster.Slug)
			}
			return []model.Node{clusterNode(cluster.Slug, cluster.Slug+"-node1", model.NodeRoleRegular)}, nil
		},
	}
	aggregator := NewAggregator(discardLogger(), backend, 10)

	clusters := []model.Cluster{{Slug: "alpha"}, {Slug: "broken"}, {Slug: "beta"}}
	result := aggregator.Aggregate(context.Background(), clusters)

	require.Len(t, result.BadClusters, 1)
	require.Equal(t, "broken", result.BadClusters[0].Slug)
	require.Len(t, result.Nodes, 2)
	for _, node := range result.Nodes {
		require.NotEqual(t, "broken", node.Cluster)
	}
}

func TestAggregator_OfflineNodesAreClassified(t *testing.T) {
	backend := &fakeBackend{
		queryNodes: func(_ context.Context, cluster model.Cluster) ([]model.Node, error) {
			return []model.Node{
				clusterNode(cluster.Slug, "healthy-node", model.NodeRoleRegular),
				clusterNode(cluster.Slug, "dead-node", model.NodeRoleOffline),
			}, nil
		},
	}
	aggregator := NewAggregator(discardLogger(), backend, 10)

	result := aggregator.Aggregate(context.Background(), []model.Cluster{{Slug: "alpha"}})

	// offline nodes stay in the node list, they are flagged rather than dropped
	require.Len(t, result.Nodes, 2)
	require.Equal(t, []string{"dead-node"}, result.BadNodes)
	require.Empty(t, result.BadClusters)
}

func TestAggregator_PanicIsContained(t *testing.T) {
	backend := &fakeBackend{
		queryNodes: func(_ context.Context, cluster model.Cluster) ([]model.Node, error) {
			if cluster.Slug == "panicky" {
				panic("boom")
			}
			return []model.Node{clusterNode(cluster.Slug, cluster.Slug+"-node1", model.NodeRoleRegular)}, nil
		},
	}
	aggregator := NewAggregator(discardLogger(), backend, 10)

	result := aggregator.Aggregate(context.Background(), []model.Cluster{{Slug: "panicky"}, {Slug: "alpha"}})

	require.Len(t, result.BadClusters, 1)
	require.Equal(t, "panicky", result.BadClusters[0].Slug)
	require.Len(t, result.Nodes, 1)
}

func TestAggregator_SlowClusterDoesNotSuppressOthers(t *testing.T) {
	backend := &fakeBackend{
		queryNodes: func(ctx context.Context, cluster model.Cluster) ([]model.Node, error) {
			if cluster.Slug == "slow" {
				// per-call timeout at the adapter boundary turns into an
				// unreachable failure
				<-ctx.Done()
				return nil, errdef.NewUnavailable("cluster %q is unreachable: %v", cluster.Slug, ctx.Err())
			}
			return []model.Node{clusterNode(cluster.Slug, cluster.Slug+"-node1", model.NodeRoleRegular)}, nil
		},
	}
	aggregator := NewAggregator(discardLogger(), backend, 10)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	result := aggregator.Aggregate(ctx, []model.Cluster{{Slug: "alpha"}, {Slug: "slow"}, {Slug: "beta"}})
	elapsed := time.Since(start)

	require.Less(t, elapsed, 2*time.Second)
	require.Len(t, result.Nodes, 2)
	require.Len(t, result.BadClusters, 1)
	require.Equal(t, "slow", result.BadClusters[0].Slug)
}

func TestAggregator_BoundedParallelism(t *testing.T) {
	backend := &fakeBackend{
		queryNodes: func(_ context.Context, cluster model.Cluster) ([]model.Node, error) {
			time.Sleep(20 * time.Millisecond)
			return []model.Node{clusterNode(cluster.Slug, cluster.Slug+"-node1", model.NodeRoleRegular)}, nil
		},
	}
	aggregator := NewAggregator(discardLogger(), backend, 2)

	clusters := make([]model.Cluster, 8)
	for i := range clusters {
		clusters[i] = model.Cluster{Slug: string(rune('a' + i))}
	}

	result := aggregator.Aggregate(context.Background(), clusters)

	require.Len(t, result.Nodes, 8)
	require.Equal(t, 8, backend.calls)
	require.LessOrEqual(t, backend.maxInFlight, 2)
}
