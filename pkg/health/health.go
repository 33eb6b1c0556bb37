package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Status struct {
	Status string `json:"status"`
}

// Health of the service
func Health(c *gin.Context) {
	// swagger:route GET /health health
	//
	// Service health
	//
	// Show service health status
	//
	// responses:
	//   200: Status
	c.JSON(http.StatusOK, Status{Status: "up"})
}
