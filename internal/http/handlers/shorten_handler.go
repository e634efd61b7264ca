package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-url-shortener/internal/domain"
	"github.com/tbourn/go-url-shortener/internal/services"
)

// ShortenRequest is the batch payload of POST /shorten.
type ShortenRequest struct {
	URLs []ShortenURL `json:"urls"`
}

// ShortenURL is one URL to shorten.
type ShortenURL struct {
	// URL is the http(s) target.
	URL string `json:"url" example:"https://example.com/some/long/path?q=1"`
	// Domain selects the short domain; the default domain when empty.
	Domain string `json:"domain,omitempty" example:"s.example.com"`
	// CustomCode requests a specific code (3-20 chars of a-z, 0-9, -).
	CustomCode string `json:"custom_code,omitempty" example:"spring-sale"`
}

// ItemError describes why one item failed.
type ItemError struct {
	Code    string `json:"code" example:"validation_error"`
	Message string `json:"message" example:"url must use http or https"`
}

// ShortenItemResponse is either a success (code, short_url, domain set) or
// a failure (error set). LongURL is always present.
type ShortenItemResponse struct {
	LongURL  string     `json:"long_url"`
	Code     string     `json:"code,omitempty"`
	ShortURL string     `json:"short_url,omitempty"`
	Domain   string     `json:"domain,omitempty"`
	Error    *ItemError `json:"error,omitempty"`
}

// ShortenResponse reports every item in request order.
type ShortenResponse struct {
	Summary services.BatchSummary `json:"summary"`
	Items   []ShortenItemResponse `json:"items"`
}

// Shorten godoc
// @ID          shortenBatch
// @Summary     Shorten URLs
// @Description Shortens 1 to 100 URLs. Items succeed or fail independently; shortening the same URL on the same domain returns the existing code.
// @Tags        Links
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ShortenRequest   true  "URLs to shorten"
// @Success     200   {object}  handlers.ShortenResponse
// @Failure     400   {object}  handlers.ErrorResponse    "Malformed body or batch size out of range"
// @Failure     413   {object}  handlers.ErrorResponse    "Body too large"
// @Failure     429   {object}  handlers.ErrorResponse    "Rate limited"
// @Failure     500   {object}  handlers.ErrorResponse    "Internal error"
// @Router      /shorten [post]
func (h *Handlers) Shorten(c *gin.Context) {
	var req ShortenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(c, http.StatusRequestEntityTooLarge, ErrCodeBodyTooLarge, "request body too large")
			return
		}
		fail(c, http.StatusBadRequest, domain.CodeValidation, "invalid JSON body")
		return
	}

	items := make([]services.ShortenItem, len(req.URLs))
	for i, u := range req.URLs {
		items[i] = services.ShortenItem{URL: u.URL, Domain: u.Domain, CustomCode: u.CustomCode}
	}

	results, sum, err := h.links.ShortenBatch(c.Request.Context(), items)
	if err != nil {
		failErr(c, err)
		return
	}

	resp := ShortenResponse{Summary: sum, Items: make([]ShortenItemResponse, len(results))}
	for i, r := range results {
		if r.Err != nil {
			resp.Items[i] = ShortenItemResponse{
				LongURL: r.LongURL,
				Error:   &ItemError{Code: domain.Code(r.Err), Message: domain.Message(r.Err)},
			}
			continue
		}
		resp.Items[i] = ShortenItemResponse{
			LongURL:  r.LongURL,
			Code:     r.Code,
			ShortURL: r.ShortURL,
			Domain:   r.Domain,
		}
	}
	ok(c, http.StatusOK, resp)
}
