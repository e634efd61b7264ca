package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DomainItem describes one configured domain.
type DomainItem struct {
	Domain      string    `json:"domain" example:"s.example.com"`
	IsDefault   bool      `json:"is_default"`
	IsActive    bool      `json:"is_active"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DomainListResponse lists domains.
type DomainListResponse struct {
	Items []DomainItem `json:"items"`
}

// ListDomains godoc
// @ID          listDomains
// @Summary     List domains
// @Description Every configured domain, active or not.
// @Tags        Domains
// @Produce     json
// @Security    BearerAuth
// @Success     200  {object}  handlers.DomainListResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /domains [get]
func (h *Handlers) ListDomains(c *gin.Context) {
	ds, err := h.domains.List(c.Request.Context(), false)
	if err != nil {
		failErr(c, err)
		return
	}
	resp := DomainListResponse{Items: make([]DomainItem, len(ds))}
	for i, d := range ds {
		resp.Items[i] = DomainItem{
			Domain:      d.Name,
			IsDefault:   d.IsDefault,
			IsActive:    d.IsActive,
			Description: d.Description,
			CreatedAt:   d.CreatedAt,
			UpdatedAt:   d.UpdatedAt,
		}
	}
	ok(c, http.StatusOK, resp)
}
