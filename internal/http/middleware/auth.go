package middleware

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

const (
	tokenIDKey   = "tokenID"
	tokenNameKey = "tokenName"
)

// Authenticator validates a raw bearer token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.APIToken, error)
}

// BearerAuth requires "Authorization: Bearer <token>". Rejected requests get
// 401 with WWW-Authenticate: Bearer and the standard error envelope; store
// failures surface as 500 rather than a misleading 401.
//
// On success the token id and name are stored in the Gin context.
func BearerAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "missing or malformed bearer token")
			return
		}

		tok, err := auth.Authenticate(c.Request.Context(), raw)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrUnauthorized):
			unauthorized(c, domain.Message(err))
			return
		default:
			LoggerFrom(c).Error().Err(err).Msg("token authentication failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       domain.CodeInternal,
				"message":    domain.Message(err),
			})
			return
		}

		c.Set(tokenIDKey, strconv.FormatInt(tok.ID, 10))
		c.Set(tokenNameKey, tok.Name)
		c.Next()
	}
}

// TokenIDFrom returns the id of the token BearerAuth accepted, if any.
func TokenIDFrom(c *gin.Context) (string, bool) {
	id := c.GetString(tokenIDKey)
	return id, id != ""
}

func bearerToken(h string) (string, bool) {
	scheme, tok, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	return tok, tok != ""
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": RequestIDFrom(c),
		"code":       domain.CodeUnauthorized,
		"message":    msg,
	})
}
