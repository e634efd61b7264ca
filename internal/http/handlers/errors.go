package handlers

import (
	"net/http"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// Codes used only at the HTTP edge. Everything else comes from
// domain.Code.
const (
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeBodyTooLarge     = "body_too_large"
)

// statusFor maps a domain error kind to an HTTP status.
func statusFor(err error) int {
	switch domain.Code(err) {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
