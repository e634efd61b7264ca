package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-url-shortener/internal/services"
)

// Redirect godoc
// @ID          redirect
// @Summary     Follow a short link
// @Description Resolves the code under the domain named by the Host header and redirects. The click is recorded asynchronously.
// @Tags        Links
// @Produce     json
// @Param       code  path  string  true  "Short code"  example(abc123XYZ_-0)
// @Success     302   "Redirect to the long URL"
// @Failure     404   {object}  handlers.ErrorResponse  "Unknown domain or code"
// @Failure     500   {object}  handlers.ErrorResponse  "Internal error"
// @Router      /{code} [get]
func (h *Handlers) Redirect(c *gin.Context) {
	target, err := h.redirect.Handle(c.Request.Context(), services.RedirectRequest{
		Host:      c.Request.Host,
		Code:      c.Param("code"),
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
