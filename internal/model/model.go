// Package model defines the record shapes served by the API. Records are
// reconstructed from the source datasets on every request; the only derived
// fields are the ones attached by the enrichment step.
package model

// VictimRecord is one leak-site post. Screenshot and Infostealer are derived
// at request time and never written back to the source dataset.
type VictimRecord struct {
	PostTitle   string `json:"post_title"`
	GroupName   string `json:"group_name"`
	Discovered  string `json:"discovered"`
	Published   string `json:"published"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
	PostURL     string `json:"post_url,omitempty"`
	Country     string `json:"country,omitempty"`
	Activity    string `json:"activity,omitempty"`

	// Derived fields
	Screenshot  string               `json:"screenshot"`
	Infostealer *InfostealerExposure `json:"infostealer,omitempty"`
}

// GroupRecord is one threat-actor group. TTPs is attached only on the
// single-group lookup path.
type GroupRecord struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Captcha     bool            `json:"captcha,omitempty"`
	Parser      bool            `json:"parser,omitempty"`
	Locations   []GroupLocation `json:"locations"`
	Profile     []string        `json:"profile,omitempty"`

	// Derived field
	TTPs []TTPRecord `json:"ttps,omitempty"`
}

// GroupLocation is one known leak-site mirror for a group.
type GroupLocation struct {
	FQDN       string `json:"fqdn"`
	Title      string `json:"title,omitempty"`
	Version    int    `json:"version,omitempty"`
	Slug       string `json:"slug,omitempty"`
	Available  bool   `json:"available"`
	Updated    string `json:"updated,omitempty"`
	LastScrape string `json:"lastscrape,omitempty"`
	Enabled    bool   `json:"enabled,omitempty"`
}

// TTPRecord maps a group to its observed MITRE ATT&CK techniques. GroupName
// in the dataset is already normalized (lowercase, no spaces); it is cleared
// before the record is attached to a GroupRecord, so it never appears in
// single-group responses.
type TTPRecord struct {
	GroupName  string      `json:"group_name,omitempty"`
	Techniques []Technique `json:"techniques"`
}

// Technique is one ATT&CK technique descriptor.
type Technique struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Tactic string `json:"tactic,omitempty"`
}

// InfostealerExposure summarizes stealer-log exposure for a victim domain.
// The source dataset is a map keyed by normalized hostname.
type InfostealerExposure struct {
	Employees    int    `json:"employees"`
	Users        int    `json:"users"`
	ThirdParties int    `json:"thirdparties"`
	Update       string `json:"update,omitempty"`
}

// CyberattackRecord is one cyberattack news item. Not enriched; only sorted
// and truncated.
type CyberattackRecord struct {
	Date    string `json:"date"`
	Title   string `json:"title"`
	Victim  string `json:"victim,omitempty"`
	Summary string `json:"summary,omitempty"`
	URL     string `json:"url,omitempty"`
	Country string `json:"country,omitempty"`
}
