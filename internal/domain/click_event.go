package domain

import "time"

// ClickEvent is the transient input to click persistence. It carries the
// domain name and code rather than a link id; the worker resolves both when
// it writes the row.
type ClickEvent struct {
	Domain     string
	Code       string
	IP         string
	UserAgent  string
	Referer    string
	OccurredAt time.Time
}

// NewClickEvent stamps the event with the current UTC time.
func NewClickEvent(domainName, code, ip, userAgent, referer string) ClickEvent {
	return ClickEvent{
		Domain:     domainName,
		Code:       code,
		IP:         ip,
		UserAgent:  userAgent,
		Referer:    referer,
		OccurredAt: time.Now().UTC(),
	}
}
