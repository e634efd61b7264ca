package services

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/tbourn/go-url-shortener/internal/domain"
)

// MaxURLLength bounds accepted long URLs.
const MaxURLLength = 2048

// NormalizeURL validates raw as an absolute http(s) URL and returns its
// canonical stored form: lower-cased host, default port removed, fragment
// dropped.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", domain.Validation("url is required")
	}
	if len(raw) > MaxURLLength {
		return "", domain.Validation("url is too long")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", domain.Wrap(domain.ErrValidation, "invalid url format", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", domain.Validation("only http and https urls are allowed")
	}
	if u.Host == "" || u.Hostname() == "" {
		return "", domain.Validation("url must include a host")
	}

	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	if port != "" {
		host += ":" + port
	}

	u.Scheme = scheme
	u.Host = host
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// NormalizeHost turns a Host header value into a domain name: the port is
// stripped, the name lower-cased and converted to its ASCII form.
func NormalizeHost(host string) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", domain.Validation("missing host")
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if host == "" {
		return "", domain.Validation("missing host")
	}
	if ip := net.ParseIP(strings.Trim(host, "[]")); ip != nil {
		return ip.String(), nil
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", domain.Wrap(domain.ErrValidation, "invalid host", err)
	}
	return ascii, nil
}

// ValidateDomainName checks a name an administrator wants to register.
func ValidateDomainName(name string) (string, error) {
	n, err := NormalizeHost(name)
	if err != nil {
		return "", domain.Validation("invalid domain name")
	}
	if len(n) > 255 {
		return "", domain.Validation("domain name is too long")
	}
	if !strings.Contains(n, ".") {
		return "", domain.Validation("domain name must contain at least one dot")
	}
	for _, r := range n {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '.' || r == '-') {
			return "", domain.Validation("domain name may contain only letters, digits, dots and hyphens")
		}
	}
	return n, nil
}
