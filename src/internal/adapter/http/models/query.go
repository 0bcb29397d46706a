package models

import (
	"fmt"
	"strings"
	"time"
)

// DateRangeQuery carries optional from/to query parameters. Each bound may be
// an RFC 3339 timestamp or a plain date; a plain "to" date covers the whole day.
type DateRangeQuery struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

func (q DateRangeQuery) IsEmpty() bool {
	return strings.TrimSpace(q.From) == "" && strings.TrimSpace(q.To) == ""
}

// Parse resolves both bounds in loc. Both or neither bound must be present.
func (q DateRangeQuery) Parse(loc *time.Location) (time.Time, time.Time, error) {
	fromRaw := strings.TrimSpace(q.From)
	toRaw := strings.TrimSpace(q.To)
	if fromRaw == "" || toRaw == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("from and to are required together")
	}

	from, err := parseBound(fromRaw, loc, false)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("from: %w", err)
	}
	to, err := parseBound(toRaw, loc, true)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("to: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("to must not be before from")
	}
	return from, to, nil
}

func parseBound(raw string, loc *time.Location, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}

	d, err := time.ParseInLocation(time.DateOnly, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be RFC 3339 or YYYY-MM-DD")
	}
	if endOfDay {
		return d.AddDate(0, 0, 1).Add(-time.Millisecond), nil
	}
	return d, nil
}
