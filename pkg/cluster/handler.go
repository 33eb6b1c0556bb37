package cluster

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skroutz/ganetimgr/internal/handler"
)

func NewHandler(clusterService Service) Handler {
	return Handler{clusterService}
}

type Handler struct {
	clusterService Service
}

type CreateClusterRequest struct {
	Hostname    string `json:"hostname" binding:"required,hostname"`
	Description string `json:"description" binding:"required"`
	Port        int    `json:"port" binding:"required"`
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FastCreate  bool   `json:"fastCreate"`
}

// Create cluster
func (h Handler) Create(c *gin.Context) {
	// swagger:route POST /clusters clusterCreate
	//
	// Register cluster
	//
	// Register a cluster backend in the registry
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   201: Cluster
	//   400: Error
	//   401: Error
	//   409: Error
	//   415: Error
	var request CreateClusterRequest

	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	cluster, err := h.clusterService.Save(c.Request.Context(), request.Hostname, request.Description, request.Port, request.Username, request.Password, request.FastCreate)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, cluster)
}

type UpdateClusterRequest struct {
	Description string `json:"description"`
	Port        int    `json:"port"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	FastCreate  bool   `json:"fastCreate"`
}

// Update cluster
func (h Handler) Update(c *gin.Context) {
	// swagger:route PUT /clusters/{slug} clusterUpdate
	//
	// Update cluster
	//
	// Update a cluster's connection parameters
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   200: Cluster
	//   400: Error
	//   401: Error
	//   404: Error
	//   415: Error
	var request UpdateClusterRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	cluster, err := h.clusterService.Update(c.Request.Context(), c.Param("slug"), request.Description, request.Port, request.Username, request.Password, request.FastCreate)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, cluster)
}

// Delete cluster
func (h Handler) Delete(c *gin.Context) {
	// swagger:route DELETE /clusters/{slug} clusterDelete
	//
	// Delete cluster
	//
	// Remove a cluster from the registry
	//
	// security:
	//   oauth2:
	//
	// responses:
	//   202:
	//   401: Error
	//   404: Error
	err := h.clusterService.Delete(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusAccepted)
}

// Find cluster by slug
func (h Handler) Find(c *gin.Context) {
	// swagger:route GET /clusters/{slug} findClusterBySlug
	//
	// Find cluster
	//
	// Find a cluster by its slug
	//
	// responses:
	//   200: Cluster
	//   401: Error
	//   404: Error
	//
	// security:
	//   oauth2:
	cluster, err := h.clusterService.FindBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, cluster)
}

// FindAll find all clusters
func (h Handler) FindAll(c *gin.Context) {
	// swagger:route GET /clusters findAllClusters
	//
	// Find all clusters
	//
	// List every registered cluster
	//
	// responses:
	//   200: Clusters
	//   401: Error
	//
	// security:
	//   oauth2:
	clusters, err := h.clusterService.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, clusters)
}
