package model

// NodeRole is the role a node reports within its cluster.
type NodeRole string

const (
	NodeRoleOffline   NodeRole = "offline"
	NodeRoleDrained   NodeRole = "drained"
	NodeRoleRegular   NodeRole = "regular"
	NodeRoleCandidate NodeRole = "candidate"
	NodeRoleMaster    NodeRole = "master"
)

// Node is a normalized snapshot of one host within a cluster. Nodes are
// produced fresh on every aggregation pass and never persisted; their
// lifetime is bounded by the cache TTL holding them.
type Node struct {
	Name    string `json:"name"`
	Cluster string `json:"cluster"`

	MemUsed  int `json:"memUsed"`
	MemFree  int `json:"memFree"`
	MemTotal int `json:"memTotal"`

	DiskUsed      int  `json:"diskUsed"`
	DiskFree      int  `json:"diskFree"`
	DiskTotal     int  `json:"diskTotal"`
	SharedStorage bool `json:"sharedStorage"`

	CPUTotal int `json:"cpuTotal"`

	PrimaryInstanceCount int      `json:"primaryInstanceCount"`
	PrimaryInstances     []string `json:"primaryInstances"`

	Role NodeRole `json:"role"`
}

// ClusterDetail is the per-cluster payload shown on the cluster listing.
type ClusterDetail struct {
	Slug              string `json:"slug"`
	Hostname          string `json:"hostname"`
	Software          string `json:"software"`
	Version           string `json:"version"`
	Nodes             int    `json:"nodes"`
	Instances         int    `json:"instances"`
	DefaultHypervisor string `json:"defaultHypervisor,omitempty"`
}

// InstanceDetail is a single instance as reported by its cluster.
type InstanceDetail struct {
	Name    string   `json:"name"`
	Cluster string   `json:"cluster"`
	Node    string   `json:"node"`
	Status  string   `json:"status"`
	Memory  int      `json:"memory"`
	VCPUs   int      `json:"vcpus"`
	Disks   []int    `json:"disks"`
	NICs    []string `json:"nics"`
	OS      string   `json:"os"`
}
