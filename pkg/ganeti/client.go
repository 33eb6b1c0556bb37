// Package ganeti talks to the RAPI endpoint of a Ganeti cluster. Every call
// can block on the network and fails independently of calls to other
// clusters; failures are reported through the errdef kinds so callers can
// tell an unreachable backend from a rejected command.
package ganeti

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/skroutz/ganetimgr/internal/errdef"
	"github.com/skroutz/ganetimgr/pkg/model"
)

// Client is the uniform interface to a remote cluster's query/command API.
type Client interface {
	QueryNodes(ctx context.Context, cluster model.Cluster) ([]model.Node, error)
	QueryClusterInfo(ctx context.Context, cluster model.Cluster) (model.ClusterDetail, error)
	QueryInstance(ctx context.Context, cluster model.Cluster, instance string) (model.InstanceDetail, error)
	ReinstallInstance(ctx context.Context, cluster model.Cluster, instance string) (int, error)
	DestroyInstance(ctx context.Context, cluster model.Cluster, instance string) (int, error)
	RenameInstance(ctx context.Context, cluster model.Cluster, instance, newName string) (int, error)
}

func NewClient(timeout time.Duration) *client {
	return &client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

type client struct {
	httpClient *http.Client
}

// rapiNode is a node record as returned by GET /2/nodes?bulk=1.
type rapiNode struct {
	Name      string   `json:"name"`
	MFree     int      `json:"mfree"`
	MTotal    int      `json:"mtotal"`
	DFree     int      `json:"dfree"`
	DTotal    int      `json:"dtotal"`
	SPFree    int      `json:"spfree"`
	SPTotal   int      `json:"sptotal"`
	CTotal    int      `json:"ctotal"`
	PinstCnt  int      `json:"pinst_cnt"`
	PinstList []string `json:"pinst_list"`
	Role      string   `json:"role"`
}

func (c client) QueryNodes(ctx context.Context, cluster model.Cluster) ([]model.Node, error) {
	var rapiNodes []rapiNode
	err := c.get(ctx, cluster, "/2/nodes?bulk=1", &rapiNodes)
	if err != nil {
		return nil, err
	}

	nodes := make([]model.Node, 0, len(rapiNodes))
	for _, n := range rapiNodes {
		nodes = append(nodes, normalizeNode(cluster, n))
	}

	return nodes, nil
}

func normalizeNode(cluster model.Cluster, n rapiNode) model.Node {
	node := model.Node{
		Name:                 n.Name,
		Cluster:              cluster.Slug,
		MemUsed:              n.MTotal - n.MFree,
		MemFree:              n.MFree,
		MemTotal:             n.MTotal,
		DiskUsed:             n.DTotal - n.DFree,
		DiskFree:             n.DFree,
		DiskTotal:            n.DTotal,
		CPUTotal:             n.CTotal,
		PrimaryInstanceCount: n.PinstCnt,
		PrimaryInstances:     n.PinstList,
		Role:                 normalizeRole(n.Role),
	}

	// clusters on shared storage report capacity through the storage pool
	if n.SPTotal > 0 {
		node.SharedStorage = true
		node.DiskUsed = n.SPTotal - n.SPFree
		node.DiskFree = n.SPFree
		node.DiskTotal = n.SPTotal
	}

	return node
}

// normalizeRole maps the single-letter RAPI role to the role enum. Unknown
// letters degrade to regular rather than failing the whole node list.
func normalizeRole(role string) model.NodeRole {
	switch role {
	case "O":
		return model.NodeRoleOffline
	case "D":
		return model.NodeRoleDrained
	case "C":
		return model.NodeRoleCandidate
	case "M":
		return model.NodeRoleMaster
	default:
		return model.NodeRoleRegular
	}
}

type rapiInfo struct {
	Name              string `json:"name"`
	Software          string `json:"software_version"`
	Version           int    `json:"protocol_version"`
	DefaultHypervisor string `json:"default_hypervisor"`
}

func (c client) QueryClusterInfo(ctx context.Context, cluster model.Cluster) (model.ClusterDetail, error) {
	var info rapiInfo
	if err := c.get(ctx, cluster, "/2/info", &info); err != nil {
		return model.ClusterDetail{}, err
	}

	var nodes []struct{}
	if err := c.get(ctx, cluster, "/2/nodes", &nodes); err != nil {
		return model.ClusterDetail{}, err
	}

	var instances []struct{}
	if err := c.get(ctx, cluster, "/2/instances", &instances); err != nil {
		return model.ClusterDetail{}, err
	}

	return model.ClusterDetail{
		Slug:              cluster.Slug,
		Hostname:          cluster.Hostname,
		Software:          info.Software,
		Version:           fmt.Sprintf("%d", info.Version),
		Nodes:             len(nodes),
		Instances:         len(instances),
		DefaultHypervisor: info.DefaultHypervisor,
	}, nil
}

type rapiInstance struct {
	Name     string   `json:"name"`
	Pnode    string   `json:"pnode"`
	Status   string   `json:"status"`
	BeParams struct {
		Memory int `json:"memory"`
		VCPUs  int `json:"vcpus"`
	} `json:"beparams"`
	DiskSizes []int    `json:"disk.sizes"`
	NicIPs    []string `json:"nic.ips"`
	OS        string   `json:"os"`
}

func (c client) QueryInstance(ctx context.Context, cluster model.Cluster, instance string) (model.InstanceDetail, error) {
	var i rapiInstance
	err := c.get(ctx, cluster, "/2/instances/"+instance, &i)
	if err != nil {
		return model.InstanceDetail{}, err
	}

	return model.InstanceDetail{
		Name:    i.Name,
		Cluster: cluster.Slug,
		Node:    i.Pnode,
		Status:  i.Status,
		Memory:  i.BeParams.Memory,
		VCPUs:   i.BeParams.VCPUs,
		Disks:   i.DiskSizes,
		NICs:    i.NicIPs,
		OS:      i.OS,
	}, nil
}

func (c client) ReinstallInstance(ctx context.Context, cluster model.Cluster, instance string) (int, error) {
	return c.submit(ctx, cluster, http.MethodPost, "/2/instances/"+instance+"/reinstall", nil)
}

func (c client) DestroyInstance(ctx context.Context, cluster model.Cluster, instance string) (int, error) {
	return c.submit(ctx, cluster, http.MethodDelete, "/2/instances/"+instance, nil)
}

func (c client) RenameInstance(ctx context.Context, cluster model.Cluster, instance, newName string) (int, error) {
	body := map[string]any{
		"new_name":   newName,
		"ip_check":   false,
		"name_check": false,
	}
	return c.submit(ctx, cluster, http.MethodPut, "/2/instances/"+instance+"/rename", body)
}

func (c client) get(ctx context.Context, cluster model.Cluster, path string, value any) error {
	response, err := c.do(ctx, cluster, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if err := c.checkStatus(cluster, response); err != nil {
		return err
	}

	if err := json.NewDecoder(response.Body).Decode(value); err != nil {
		return fmt.Errorf("failed to decode response from cluster %q: %v", cluster.Slug, err)
	}

	return nil
}

// submit issues a command and returns the job id the cluster assigned to it.
// A missing job id means the cluster did not accept the command.
func (c client) submit(ctx context.Context, cluster model.Cluster, method, path string, body any) (int, error) {
	response, err := c.do(ctx, cluster, method, path, body)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()

	if err := c.checkStatus(cluster, response); err != nil {
		return 0, err
	}

	var jobID int
	if err := json.NewDecoder(response.Body).Decode(&jobID); err != nil {
		return 0, errdef.NewRejected("cluster %q returned no job id: %v", cluster.Slug, err)
	}
	if jobID == 0 {
		return 0, errdef.NewRejected("cluster %q returned no job id", cluster.Slug)
	}

	return jobID, nil
}

func (c client) do(ctx context.Context, cluster model.Cluster, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	url := fmt.Sprintf("https://%s:%d%s", cluster.Hostname, cluster.Port, path)
	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for cluster %q: %v", cluster.Slug, err)
	}
	request.SetBasicAuth(cluster.Username, cluster.Password)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, errdef.NewUnavailable("cluster %q is unreachable: %v", cluster.Slug, err)
	}

	return response, nil
}

func (c client) checkStatus(cluster model.Cluster, response *http.Response) error {
	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		return nil
	case response.StatusCode == http.StatusNotFound:
		return errdef.NewNotFound("cluster %q has no such resource: %s", cluster.Slug, response.Request.URL.Path)
	default:
		return errdef.NewRejected("cluster %q rejected %s %s: %s", cluster.Slug, response.Request.Method, response.Request.URL.Path, response.Status)
	}
}
