// Package shortcode generates random short codes and validates
// user-chosen ones.
package shortcode

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"
)

// RandomBytes is the entropy behind a generated code. Nine bytes encode to
// exactly twelve URL-safe base64 characters with no padding.
const RandomBytes = 9

// Length is the length of every generated code.
var Length = base64.RawURLEncoding.EncodedLen(RandomBytes)

// Custom code bounds.
const (
	MinCustomLen = 3
	MaxCustomLen = 20
)

var customRE = regexp.MustCompile(`^[a-z0-9-]+$`)

// reserved codes would shadow a route or look like one.
var reserved = map[string]struct{}{
	"admin":   {},
	"api":     {},
	"domains": {},
	"health":  {},
	"login":   {},
	"logout":  {},
	"metrics": {},
	"shorten": {},
	"static":  {},
	"stats":   {},
	"swagger": {},
}

// Generator produces random codes from crypto/rand.
type Generator struct{}

// NewGenerator returns a Generator.
func NewGenerator() *Generator { return &Generator{} }

// Generate returns a fresh random code.
func (g *Generator) Generate() (string, error) {
	b := make([]byte, RandomBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidateCustom checks a user supplied code. The returned error is a plain
// description suitable for a client message.
func ValidateCustom(code string) error {
	if n := len(code); n < MinCustomLen || n > MaxCustomLen {
		return fmt.Errorf("custom code must be %d to %d characters", MinCustomLen, MaxCustomLen)
	}
	if !customRE.MatchString(code) {
		return fmt.Errorf("custom code may contain only lowercase letters, digits and '-'")
	}
	if strings.HasPrefix(code, "-") || strings.HasSuffix(code, "-") {
		return fmt.Errorf("custom code must not start or end with '-'")
	}
	if IsReserved(code) {
		return fmt.Errorf("custom code %q is reserved", code)
	}
	return nil
}

// IsReserved reports whether code collides with a reserved path segment.
func IsReserved(code string) bool {
	_, ok := reserved[code]
	return ok
}
