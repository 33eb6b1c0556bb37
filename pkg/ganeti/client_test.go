package ganeti

import (
	"testing"

	"github.com/skroutz/ganetimgr/pkg/model"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNode(t *testing.T) {
	cluster := model.Cluster{Slug: "gnt-prod"}

	node := normalizeNode(cluster, rapiNode{
		Name:      "node1.example.com",
		MFree:     2048,
		MTotal:    8192,
		DFree:     100,
		DTotal:    500,
		CTotal:    16,
		PinstCnt:  2,
		PinstList: []string{"vm1", "vm2"},
		Role:      "M",
	})

	require.Equal(t, "node1.example.com", node.Name)
	require.Equal(t, "gnt-prod", node.Cluster)
	require.Equal(t, 6144, node.MemUsed)
	require.Equal(t, 400, node.DiskUsed)
	require.False(t, node.SharedStorage)
	require.Equal(t, model.NodeRoleMaster, node.Role)
	require.Equal(t, []string{"vm1", "vm2"}, node.PrimaryInstances)
}

func TestNormalizeNode_SharedStorage(t *testing.T) {
	node := normalizeNode(model.Cluster{Slug: "gnt-shared"}, rapiNode{
		Name:    "node2.example.com",
		DFree:   10,
		DTotal:  20,
		SPFree:  4000,
		SPTotal: 10000,
		Role:    "R",
	})

	require.True(t, node.SharedStorage)
	require.Equal(t, 6000, node.DiskUsed)
	require.Equal(t, 4000, node.DiskFree)
	require.Equal(t, 10000, node.DiskTotal)
}

func TestNormalizeRole(t *testing.T) {
	require.Equal(t, model.NodeRoleOffline, normalizeRole("O"))
	require.Equal(t, model.NodeRoleDrained, normalizeRole("D"))
	require.Equal(t, model.NodeRoleCandidate, normalizeRole("C"))
	require.Equal(t, model.NodeRoleMaster, normalizeRole("M"))
	require.Equal(t, model.NodeRoleRegular, normalizeRole("R"))
	require.Equal(t, model.NodeRoleRegular, normalizeRole(""))
}
