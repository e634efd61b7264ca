// Package utils provides small parsing helpers for query parameters. They
// return plain errors; callers decide how to present them.
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseIntParam parses an optional integer parameter. An empty (or
// all-space) value returns def; anything else must be a base-10 integer.
//
//	n, err := utils.ParseIntParam(c.Query("page"), 0)
func ParseIntParam(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}

// ParseTimeParam parses an optional RFC3339 timestamp and returns it in UTC.
// An empty value returns nil.
func ParseTimeParam(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("%q is not an RFC3339 timestamp", s)
	}
	t = t.UTC()
	return &t, nil
}
