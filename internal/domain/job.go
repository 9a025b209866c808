package domain

import (
	"time"
	"unicode/utf8"
)

// Default field values used when a source cannot provide a real one.
// The dedupe stage relies on these exact strings when deciding whether a
// merged posting can be backfilled from a duplicate.
const (
	UnknownCompany  = "Unknown"
	UnknownLocation = "Unknown"
)

// SummaryDescriptionLimit bounds the plain-text description kept on a
// posting in its summary form.
const SummaryDescriptionLimit = 600

// JobPosting is the canonical unit produced by every source crawler and
// returned to callers. Title and URL are always non-empty on anything
// handed out; Company and Location fall back to the Unknown defaults.
type JobPosting struct {
	ID           string     `json:"id,omitempty"`
	Source       string     `json:"source"`
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Company      string     `json:"company"`
	Location     string     `json:"location"`
	Description  string     `json:"description"`
	PostedDate   *time.Time `json:"postedDate,omitempty"`
	Salary       string     `json:"salary,omitempty"`
	JobType      string     `json:"jobType,omitempty"`
	RemoteOK     bool       `json:"remoteOk"`
	Requirements []string   `json:"requirements,omitempty"`
	Seniority    string     `json:"seniority,omitempty"`
	Team         string     `json:"team,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	RawHTML      string     `json:"rawHtml,omitempty"`
}

// ApplyDefaults fills the documented fallbacks so a posting never leaves
// the pipeline with empty company/location strings.
func (j *JobPosting) ApplyDefaults() {
	if j.Company == "" {
		j.Company = UnknownCompany
	}
	if j.Location == "" {
		j.Location = UnknownLocation
	}
}

// TruncateDescription trims a description to the summary limit, appending
// an ellipsis when content was dropped. The cut backs up to a rune boundary
// so the result stays valid UTF-8.
func TruncateDescription(s string) string {
	if len(s) <= SummaryDescriptionLimit {
		return s
	}
	cut := SummaryDescriptionLimit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
