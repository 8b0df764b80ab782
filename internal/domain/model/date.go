package model

import (
	"strings"
	"time"

	domainErrors "github.com/polkiloo/posledger/internal/domain/errors"
)

const dateLayout = "2006-01-02"

// ParsePeriod converts a raw period token. An empty token means today.
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PeriodDay, nil
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom:
		return p, nil
	default:
		return "", domainErrors.Invalidf(domainErrors.ErrInvalidPeriod, "unknown period %q", raw)
	}
}

// ParseDate accepts a calendar date (interpreted in loc) or an RFC 3339 instant.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.ParseInLocation(dateLayout, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, domainErrors.Invalidf(domainErrors.ErrInvalidDate, "cannot parse %q, expected YYYY-MM-DD", raw)
}

// StartOfDay returns midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns the last representable store instant of t's calendar day in loc.
// Timestamps are persisted with microsecond precision.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Microsecond), loc)
}
