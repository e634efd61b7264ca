package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health godoc
// @ID          health
// @Summary     Health check
// @Description Probes the database, the click queue and the cache. Returns 503 when any check fails.
// @Tags        Health
// @Produce     json
// @Success     200  {object}  services.HealthReport
// @Failure     503  {object}  services.HealthReport
// @Router      /health [get]
func (h *Handlers) Health(c *gin.Context) {
	rep := h.health.Check(c.Request.Context())
	status := http.StatusOK
	if !rep.Healthy() {
		status = http.StatusServiceUnavailable
	}
	c.Header("Cache-Control", "no-store")
	ok(c, status, rep)
}
