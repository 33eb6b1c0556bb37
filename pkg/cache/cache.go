// Package cache provides the short-lived keyed store backing the
// multi-cluster dashboard. Values are recomputable aggregates, so writes are
// last-writer-wins and simultaneous misses may recompute redundantly; there
// is deliberately no request coalescing.
package cache

import "time"

// Fixed keys for the aggregated dashboard data.
const (
	KeyAllClusterNodes = "allclusternodes"
	KeyBadClusters     = "badclusters"
	KeyBadNodes        = "badnodes"
)

// ClusterDetailKey returns the key holding the detail payload of one cluster.
func ClusterDetailKey(slug string) string {
	return "clusterdetails:" + slug
}

// Store is a keyed store with per-entry TTLs. An absent or expired entry is a
// miss; callers must treat a miss as "recompute", never as an empty result.
type Store interface {
	// Get unmarshals the entry under key into value and reports whether the
	// entry was present.
	Get(key string, value any) (bool, error)
	Set(key string, value any, ttl time.Duration) error
	Delete(keys ...string) error
}
