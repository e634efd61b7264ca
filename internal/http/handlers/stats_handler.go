package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-url-shortener/internal/domain"
	"github.com/tbourn/go-url-shortener/internal/services"
)

// ClickInfo is one recorded click.
type ClickInfo struct {
	ClickedAt time.Time `json:"clicked_at"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referer   string    `json:"referer,omitempty"`
	IP        string    `json:"ip,omitempty"`
}

// LinkStatsResponse is the detailed view of one short link.
type LinkStatsResponse struct {
	Code         string              `json:"code" example:"abc123XYZ_-0"`
	Domain       string              `json:"domain" example:"s.example.com"`
	LongURL      string              `json:"long_url" example:"https://example.com/"`
	ShortURL     string              `json:"short_url" example:"https://s.example.com/abc123XYZ_-0"`
	CreatedAt    time.Time           `json:"created_at"`
	TotalClicks  int64               `json:"total_clicks"`
	RecentClicks []ClickInfo         `json:"recent_clicks"`
	Pagination   services.Pagination `json:"pagination"`
}

// LinkStatsItem is one row of the stats listing.
type LinkStatsItem struct {
	Code        string    `json:"code"`
	Domain      string    `json:"domain"`
	LongURL     string    `json:"long_url"`
	TotalClicks int64     `json:"total_clicks"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatsListResponse is a page of links with click counts.
type StatsListResponse struct {
	Items      []LinkStatsItem     `json:"items"`
	Pagination services.Pagination `json:"pagination"`
}

// LinkStats godoc
// @ID          linkStats
// @Summary     Click statistics for one short link
// @Description Total clicks in the optional [from, to) window and a page of the most recent clicks.
// @Tags        Stats
// @Produce     json
// @Security    BearerAuth
// @Param       code       path   string  true   "Short code"
// @Param       domain     query  string  false  "Domain; the default domain when omitted"
// @Param       page       query  int     false  "Page (>= 1)"                 default(1)
// @Param       page_size  query  int     false  "Page size (10-50)"           default(25)
// @Param       from       query  string  false  "Window start (RFC3339)"
// @Param       to         query  string  false  "Window end (RFC3339)"
// @Success     200  {object}  handlers.LinkStatsResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid query"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown domain or code"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /stats/{code} [get]
func (h *Handlers) LinkStats(c *gin.Context) {
	q, err := statsQuery(c)
	if err != nil {
		failErr(c, err)
		return
	}
	st, err := h.stats.LinkStats(c.Request.Context(), c.Param("code"), q)
	if err != nil {
		failErr(c, err)
		return
	}

	resp := LinkStatsResponse{
		Code:         st.Link.Code,
		Domain:       st.DomainName,
		LongURL:      st.Link.LongURL,
		ShortURL:     st.ShortURL,
		CreatedAt:    st.Link.CreatedAt,
		TotalClicks:  st.TotalClicks,
		RecentClicks: make([]ClickInfo, len(st.Clicks)),
		Pagination:   st.Pagination,
	}
	for i, cl := range st.Clicks {
		resp.RecentClicks[i] = clickInfo(cl)
	}
	ok(c, http.StatusOK, resp)
}

// ListStats godoc
// @ID          listStats
// @Summary     Click statistics for all short links
// @Description Links newest first with their click counts in the optional window.
// @Tags        Stats
// @Produce     json
// @Security    BearerAuth
// @Param       domain     query  string  false  "Only links of this domain"
// @Param       page       query  int     false  "Page (>= 1)"        default(1)
// @Param       page_size  query  int     false  "Page size (10-50)"  default(25)
// @Param       from       query  string  false  "Window start (RFC3339)"
// @Param       to         query  string  false  "Window end (RFC3339)"
// @Success     200  {object}  handlers.StatsListResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid query"
// @Failure     401  {object}  handlers.ErrorResponse  "Missing or invalid token"
// @Failure     404  {object}  handlers.ErrorResponse  "Unknown domain"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /stats [get]
func (h *Handlers) ListStats(c *gin.Context) {
	q, err := statsQuery(c)
	if err != nil {
		failErr(c, err)
		return
	}
	list, err := h.stats.List(c.Request.Context(), q)
	if err != nil {
		failErr(c, err)
		return
	}

	resp := StatsListResponse{Items: make([]LinkStatsItem, len(list.Items)), Pagination: list.Pagination}
	for i, it := range list.Items {
		resp.Items[i] = LinkStatsItem{
			Code:        it.Code,
			Domain:      it.DomainName,
			LongURL:     it.LongURL,
			TotalClicks: it.Clicks,
			CreatedAt:   it.CreatedAt,
		}
	}
	ok(c, http.StatusOK, resp)
}

func clickInfo(cl domain.Click) ClickInfo {
	return ClickInfo{ClickedAt: cl.ClickedAt, UserAgent: cl.UserAgent, Referer: cl.Referer, IP: cl.IP}
}
