package nodes

import (
	"context"
	"testing"
	"time"

	"github.com/skroutz/ganetimgr/internal/errdef"
	"github.com/skroutz/ganetimgr/pkg/cache"
	"github.com/skroutz/ganetimgr/pkg/model"
	"github.com/stretchr/testify/require"
)

type fakeRegistry struct {
	clusters []model.Cluster
}

func (f fakeRegistry) FindAll(_ context.Context) ([]model.Cluster, error) {
	return f.clusters, nil
}

func (f fakeRegistry) FindBySlug(_ context.Context, clusterSlug string) (model.Cluster, error) {
	for _, cluster := range f.clusters {
		if cluster.Slug == clusterSlug {
			return cluster, nil
		}
	}
	return model.Cluster{}, errdef.NewNotFound("cluster %q doesn't exist", clusterSlug)
}

type fakeAggregator struct {
	passes int
	result Result
}

func (f *fakeAggregator) Aggregate(_ context.Context, _ []model.Cluster) Result {
	f.passes++
	return f.result
}

type fakeDetailQuerier struct {
	infoCalls int
	detail    model.ClusterDetail
}

func (f *fakeDetailQuerier) QueryClusterInfo(_ context.Context, cluster model.Cluster) (model.ClusterDetail, error) {
	f.infoCalls++
	detail := f.detail
	detail.Slug = cluster.Slug
	return detail, nil
}

func (f *fakeDetailQuerier) QueryInstance(_ context.Context, cluster model.Cluster, instance string) (model.InstanceDetail, error) {
	return model.InstanceDetail{Name: instance, Cluster: cluster.Slug}, nil
}

func TestService_GetAllNodes_PopulatesCacheOnMiss(t *testing.T) {
	registry := fakeRegistry{clusters: []model.Cluster{{Slug: "alpha"}}}
	aggregator := &fakeAggregator{result: Result{
		Nodes:       []model.Node{clusterNode("alpha", "node1", model.NodeRoleRegular)},
		BadClusters: []model.Cluster{},
		BadNodes:    []string{},
	}}
	store := cache.NewMemoryStore()
	service := NewService(discardLogger(), registry, aggregator, &fakeDetailQuerier{}, store, 90*time.Second, 180*time.Second)

	overview, err := service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, overview.Nodes, 1)
	require.Equal(t, 1, aggregator.passes)

	// second read is served from cache, no second pass
	overview, err = service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, overview.Nodes, 1)
	require.Equal(t, 1, aggregator.passes)
}

func TestService_GetAllNodes_RecomputesAfterTTL(t *testing.T) {
	now := time.Now()
	registry := fakeRegistry{clusters: []model.Cluster{{Slug: "alpha"}}}
	aggregator := &fakeAggregator{result: Result{
		Nodes:       []model.Node{clusterNode("alpha", "node1", model.NodeRoleRegular)},
		BadClusters: []model.Cluster{},
		BadNodes:    []string{},
	}}
	store := cache.NewMemoryStore(cache.WithClock(func() time.Time { return now }))
	service := NewService(discardLogger(), registry, aggregator, &fakeDetailQuerier{}, store, 90*time.Second, 180*time.Second)

	_, err := service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 1, aggregator.passes)

	now = now.Add(91 * time.Second)

	_, err = service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 2, aggregator.passes)
}

func TestService_GetAllNodes_EmptyAggregateIsCached(t *testing.T) {
	registry := fakeRegistry{}
	aggregator := &fakeAggregator{result: Result{
		Nodes:       []model.Node{},
		BadClusters: []model.Cluster{},
		BadNodes:    []string{},
	}}
	store := cache.NewMemoryStore()
	service := NewService(discardLogger(), registry, aggregator, &fakeDetailQuerier{}, store, 90*time.Second, 180*time.Second)

	_, err := service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)
	_, err = service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)

	// a cached empty result is not a miss
	require.Equal(t, 1, aggregator.passes)
}

func TestService_GetAllNodes_ClusterFilter(t *testing.T) {
	registry := fakeRegistry{clusters: []model.Cluster{{Slug: "alpha"}, {Slug: "beta"}}}
	aggregator := &fakeAggregator{result: Result{
		Nodes: []model.Node{
			clusterNode("alpha", "node1", model.NodeRoleMaster),
			clusterNode("beta", "node2", model.NodeRoleRegular),
			clusterNode("beta", "node3", model.NodeRoleRegular),
		},
		BadClusters: []model.Cluster{},
		BadNodes:    []string{},
	}}
	store := cache.NewMemoryStore()
	service := NewService(discardLogger(), registry, aggregator, &fakeDetailQuerier{}, store, 90*time.Second, 180*time.Second)

	overview, err := service.GetAllNodes(context.Background(), "beta")
	require.NoError(t, err)
	require.Len(t, overview.Nodes, 2)
	require.Equal(t, map[model.NodeRole]int{model.NodeRoleRegular: 2}, overview.Roles)
}

func TestService_GetClusterDetails_Caching(t *testing.T) {
	registry := fakeRegistry{clusters: []model.Cluster{{Slug: "alpha", Hostname: "alpha.example.com"}}}
	backend := &fakeDetailQuerier{detail: model.ClusterDetail{Software: "2.16.0"}}
	store := cache.NewMemoryStore()
	service := NewService(discardLogger(), registry, &fakeAggregator{}, backend, store, 90*time.Second, 180*time.Second)

	detail, err := service.GetClusterDetails(context.Background(), "alpha")
	require.NoError(t, err)
	require.Equal(t, "2.16.0", detail.Software)
	require.Equal(t, 1, backend.infoCalls)

	_, err = service.GetClusterDetails(context.Background(), "alpha")
	require.NoError(t, err)
	require.Equal(t, 1, backend.infoCalls)
}

func TestService_GetClusterDetails_UnknownCluster(t *testing.T) {
	service := NewService(discardLogger(), fakeRegistry{}, &fakeAggregator{}, &fakeDetailQuerier{}, cache.NewMemoryStore(), 90*time.Second, 180*time.Second)

	_, err := service.GetClusterDetails(context.Background(), "nope")
	require.True(t, errdef.IsNotFound(err))
}

func TestService_EvictCluster(t *testing.T) {
	registry := fakeRegistry{clusters: []model.Cluster{{Slug: "alpha"}}}
	aggregator := &fakeAggregator{result: Result{Nodes: []model.Node{}, BadClusters: []model.Cluster{}, BadNodes: []string{}}}
	backend := &fakeDetailQuerier{}
	store := cache.NewMemoryStore()
	service := NewService(discardLogger(), registry, aggregator, backend, store, 90*time.Second, 180*time.Second)

	_, err := service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)
	_, err = service.GetClusterDetails(context.Background(), "alpha")
	require.NoError(t, err)

	require.NoError(t, service.EvictCluster("alpha"))

	_, err = service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 2, aggregator.passes)

	_, err = service.GetClusterDetails(context.Background(), "alpha")
	require.NoError(t, err)
	require.Equal(t, 2, backend.infoCalls)
}

func TestService_ClearCaches(t *testing.T) {
	registry := fakeRegistry{clusters: []model.Cluster{{Slug: "alpha"}}}
	aggregator := &fakeAggregator{result: Result{Nodes: []model.Node{}, BadClusters: []model.Cluster{}, BadNodes: []string{}}}
	store := cache.NewMemoryStore()
	service := NewService(discardLogger(), registry, aggregator, &fakeDetailQuerier{}, store, 90*time.Second, 180*time.Second)

	_, err := service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)

	require.NoError(t, service.ClearCaches(context.Background()))

	_, err = service.GetAllNodes(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, 2, aggregator.passes)
}
