package nodes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func NewHandler(nodeService *Service) Handler {
	return Handler{nodeService}
}

type Handler struct {
	nodeService *Service
}

// OverviewResponse is the aggregated dashboard payload plus the warning
// banner lines naming unreachable clusters and offline nodes.
type OverviewResponse struct {
	Overview
	Warnings []string `json:"warnings,omitempty"`
}

// ListNodes all cluster nodes
func (h Handler) ListNodes(c *gin.Context) {
	// swagger:route GET /nodes listNodes
	//
	// List nodes
	//
	// List the nodes of every registered cluster, aggregated and cached.
	// Unreachable clusters degrade the result instead of failing the request.
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Overview
	//   401: Error
	//   403: Error
	overview, err := h.nodeService.GetAllNodes(c.Request.Context(), c.Query("cluster"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	response := OverviewResponse{Overview: overview}
	if len(overview.BadClusters) > 0 {
		hostnames := make([]string, len(overview.BadClusters))
		for i, cluster := range overview.BadClusters {
			hostnames[i] = cluster.Hostname
		}
		response.Warnings = append(response.Warnings, fmt.Sprintf("Some nodes may be missing because the following clusters are unreachable: %s", strings.Join(hostnames, ", ")))
	}
	if len(overview.BadNodes) > 0 {
		response.Warnings = append(response.Warnings, fmt.Sprintf("Some nodes appear to be offline: %s", strings.Join(overview.BadNodes, ", ")))
	}

	c.JSON(http.StatusOK, response)
}

// ClusterDetails per-cluster payload
func (h Handler) ClusterDetails(c *gin.Context) {
	// swagger:route GET /clusters/{slug}/details clusterDetails
	//
	// Cluster details
	//
	// The detail payload of one cluster, served from cache when fresh
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: ClusterDetail
	//   401: Error
	//   403: Error
	//   404: Error
	//   502: Error
	detail, err := h.nodeService.GetClusterDetails(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// FindInstance instance popup payload
func (h Handler) FindInstance(c *gin.Context) {
	// swagger:route GET /clusters/{slug}/instances/{instance} findInstance
	//
	// Find instance
	//
	// One instance as reported by its cluster
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: InstanceDetail
	//   401: Error
	//   403: Error
	//   404: Error
	//   502: Error
	instance, err := h.nodeService.GetInstance(c.Request.Context(), c.Param("slug"), c.Param("instance"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, instance)
}

// ClearCaches administrative cache reset
func (h Handler) ClearCaches(c *gin.Context) {
	// swagger:route DELETE /caches clearCaches
	//
	// Clear caches
	//
	// Drop all cached aggregation data so the next request recomputes
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   204:
	//   401: Error
	if err := h.nodeService.ClearCaches(c.Request.Context()); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
