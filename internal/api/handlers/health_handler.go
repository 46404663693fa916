package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linskybing/taskflow/pkg/response"
)

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} response.HealthResponse
// @Router / [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.HealthResponse{Message: "Taskflow API", Status: "ok"})
}
