package booking

import (
	"sort"
	"strings"
	"time"

	"github.com/BruksfildServices01/auralynk/internal/httperr"
)

// Canonical normalises an ISO-8601 timestamp to RFC3339 UTC with second
// precision, e.g. 2025-01-01T10:00:00Z. Two slots are the same slot iff
// their canonical forms are equal. Sub-second instants are rejected rather
// than rounded so distinct instants never collapse into one slot.
func Canonical(s string) (string, error) {
	t, err := ParseSlot(s)
	if err != nil {
		return "", err
	}
	if t.Nanosecond() != 0 {
		return "", httperr.ErrBusiness("invalid_slot")
	}
	return t.UTC().Format(time.RFC3339), nil
}

var slotLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseSlot accepts RFC3339 (with or without fractional seconds), minute
// precision offsets like 2025-01-01T10:00Z, and zone-less forms read as UTC.
func ParseSlot(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range slotLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, httperr.ErrBusiness("invalid_slot")
}

// CanonicalAll canonicalises and de-duplicates, keeping first occurrences.
func CanonicalAll(slots []string) ([]string, error) {
	seen := make(map[string]struct{}, len(slots))
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		c, err := Canonical(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}

func Contains(slots []string, slot string) bool {
	for _, s := range slots {
		if s == slot {
			return true
		}
	}
	return false
}

// RemoveSlot drops every occurrence of slot.
func RemoveSlot(slots []string, slot string) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		if s != slot {
			out = append(out, s)
		}
	}
	return out
}

// RestoreSlot appends slot unless it is already present.
func RestoreSlot(slots []string, slot string) []string {
	if Contains(slots, slot) {
		return slots
	}
	return append(slots, slot)
}

// UpcomingOnly keeps slots strictly after now. Unparseable entries are dropped.
func UpcomingOnly(slots []string, now time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		t, err := ParseSlot(s)
		if err != nil {
			continue
		}
		if t.After(now) {
			out = append(out, s)
		}
	}
	return out
}

type DayGroup struct {
	Day   string   `json:"day"`
	Slots []string `json:"slots"`
}

// GroupByDay sorts slots chronologically and buckets them by calendar day
// in loc.
func GroupByDay(slots []string, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.UTC
	}

	type parsed struct {
		raw string
		at  time.Time
	}
	ps := make([]parsed, 0, len(slots))
	for _, s := range slots {
		t, err := ParseSlot(s)
		if err != nil {
			continue
		}
		ps = append(ps, parsed{raw: s, at: t.In(loc)})
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].at.Before(ps[j].at) })

	groups := []DayGroup{}
	for _, p := range ps {
		day := p.at.Format("2006-01-02")
		if n := len(groups); n > 0 && groups[n-1].Day == day {
			groups[n-1].Slots = append(groups[n-1].Slots, p.raw)
			continue
		}
		groups = append(groups, DayGroup{Day: day, Slots: []string{p.raw}})
	}
	return groups
}
