// Package enrich joins victim and group records against the auxiliary
// datasets. Enrichment is total: missing auxiliary data yields an absent
// derived field, never an error, and the source record set is never mutated
// in place.
package enrich

import (
	"strings"

	"github.com/JMousqueton/api.ransomware.live/internal/model"
	"github.com/JMousqueton/api.ransomware.live/internal/screenshot"
)

// Enricher attaches derived fields to records.
type Enricher struct {
	shots *screenshot.Resolver
}

// New creates an Enricher using the given screenshot resolver.
func New(shots *screenshot.Resolver) *Enricher {
	return &Enricher{shots: shots}
}

// NormalizeHost strips the URL scheme and one trailing slash from a website
// value, yielding the key format of the infostealer index.
func NormalizeHost(website string) string {
	host := strings.TrimPrefix(website, "https://")
	host = strings.TrimPrefix(host, "http://")
	return strings.TrimSuffix(host, "/")
}

// NormalizeGroup lowercases a group name and removes spaces, yielding the key
// format of the TTP dataset.
func NormalizeGroup(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}

// Victim returns a copy of v with the derived fields attached: the screenshot
// URL when an artifact exists for the post, and the infostealer exposure when
// the normalized website has an exact match in the index.
func (e *Enricher) Victim(v model.VictimRecord, index map[string]model.InfostealerExposure) model.VictimRecord {
	v.Screenshot = e.shots.Resolve(v.PostURL)
	v.Infostealer = nil

	if v.Website != "" {
		if exposure, ok := index[NormalizeHost(v.Website)]; ok {
			v.Infostealer = &exposure
		}
	}
	return v
}

// Victims enriches a record slice into a fresh slice.
func (e *Enricher) Victims(records []model.VictimRecord, index map[string]model.InfostealerExposure) []model.VictimRecord {
	out := make([]model.VictimRecord, len(records))
	for i, v := range records {
		out[i] = e.Victim(v, index)
	}
	return out
}

// AttachTTPs returns a copy of g with every TTP record matching the
// normalized group name attached. The group_name field is cleared on each
// attached record so it is omitted from the response.
func AttachTTPs(g model.GroupRecord, ttps []model.TTPRecord) model.GroupRecord {
	key := NormalizeGroup(g.Name)

	var matched []model.TTPRecord
	for _, t := range ttps {
		if t.GroupName == key {
			t.GroupName = ""
			matched = append(matched, t)
		}
	}
	g.TTPs = matched
	return g
}
