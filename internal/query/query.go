// Package query selects and orders record subsets. Every operation is pure
// over its input slice; callers receive fresh slices and the source data is
// left untouched.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JMousqueton/api.ransomware.live/internal/model"
	apperrors "github.com/JMousqueton/api.ransomware.live/pkg/errors"
)

// RecentVictims returns the last n records in arrival order, re-sorted by
// the published timestamp descending. The window is cut before sorting:
// "most recent" means arrival position, display order is imposed after.
func RecentVictims(records []model.VictimRecord, n int) []model.VictimRecord {
	start := len(records) - n
	if start < 0 {
		start = 0
	}

	window := make([]model.VictimRecord, len(records)-start)
	copy(window, records[start:])

	sort.SliceStable(window, func(i, j int) bool {
		return window[i].Published > window[j].Published
	})
	return window
}

// ByYearMonth returns records whose discovered date starts with "YYYY-" or,
// when month is given, "YYYY-MM". The month is zero-padded, so 7 and 07 match
// identically. This is a string prefix match, not a calendar range.
func ByYearMonth(records []model.VictimRecord, year int, month *int) []model.VictimRecord {
	prefix := fmt.Sprintf("%d-", year)
	if month != nil {
		prefix = fmt.Sprintf("%d-%02d", year, *month)
	}

	matched := make([]model.VictimRecord, 0)
	for _, r := range records {
		if strings.HasPrefix(r.Discovered, prefix) {
			matched = append(matched, r)
		}
	}
	return matched
}

// ByGroup returns records with an exact, case-sensitive group name match.
func ByGroup(records []model.VictimRecord, name string) []model.VictimRecord {
	matched := make([]model.VictimRecord, 0)
	for _, r := range records {
		if r.GroupName == name {
			matched = append(matched, r)
		}
	}
	return matched
}

// ByCountryCode returns records whose country equals the upper-cased code.
func ByCountryCode(records []model.VictimRecord, code string) []model.VictimRecord {
	code = strings.ToUpper(code)

	matched := make([]model.VictimRecord, 0)
	for _, r := range records {
		if r.Country == code {
			matched = append(matched, r)
		}
	}
	return matched
}

// GroupByName returns the first group with an exact name match. Unlike the
// list filters, this is an entity lookup: a miss is a NOT_FOUND error, not an
// empty result.
func GroupByName(groups []model.GroupRecord, name string) (model.GroupRecord, error) {
	for _, g := range groups {
		if g.Name == name {
			return g, nil
		}
	}
	return model.GroupRecord{}, apperrors.NotFound("group")
}

// CyberattacksByDateDesc returns a copy of the records sorted by date
// descending, truncated to at most limit entries when limit > 0. Records
// with a missing date sort last.
func CyberattacksByDateDesc(records []model.CyberattackRecord, limit int) []model.CyberattackRecord {
	sorted := make([]model.CyberattackRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date > sorted[j].Date
	})

	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
