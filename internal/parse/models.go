// Package parse turns a fetched HTML document into structured job data.
// A priority-ordered registry picks one extraction strategy per page: ATS
// family parsers first (each needs a domain match plus a DOM fingerprint),
// then a hub/form-gate override, then a generic fallback.
package parse

import (
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/normalize"
)

// Parser tags. A tag identifies the strategy that produced a ParsedJob.
const (
	TagYCJob      = "yc_job"
	TagAshby      = "ashby_job"
	TagLever      = "lever_job"
	TagGreenhouse = "greenhouse_job"
	TagGeneric    = "generic_html"
	TagHub        = "redirect_hub"
)

// Warning codes appended to ParsedJob.Warnings.
const (
	WarnHubOrForm = "hub_or_form_detected"
)

// Section is one heading-delimited block of a posting, in source order.
type Section struct {
	Heading string `json:"heading"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
}

// CompanyProfile is the best-effort company context extracted alongside a
// posting (or instead of one, on hub/form pages).
type CompanyProfile struct {
	Name      string            `json:"name,omitempty"`
	Tagline   string            `json:"tagline,omitempty"`
	AboutHTML string            `json:"aboutHtml,omitempty"`
	AboutText string            `json:"aboutText,omitempty"`
	Links     map[string]string `json:"links,omitempty"`
	Locations []string          `json:"locations,omitempty"`
}

// JobSummary is a link+title pair discovered on a hub page.
type JobSummary struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ParsedJob is the rich intermediate a parser produces before the service
// maps it down to a domain.JobPosting.
type ParsedJob struct {
	Source   string   `json:"source,omitempty"`
	URL      string   `json:"url,omitempty"`
	Title    string   `json:"title,omitempty"`
	Company  string   `json:"company,omitempty"`
	Location string   `json:"location,omitempty"`
	Salary   string   `json:"salary,omitempty"`
	RemoteOK bool     `json:"remoteOk,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	DescriptionHTML  string               `json:"descriptionHtml,omitempty"`
	DescriptionText  string               `json:"descriptionText,omitempty"`
	Sections         []Section            `json:"sections,omitempty"`
	SalaryInfo       normalize.SalaryInfo `json:"salaryInfo,omitempty"`
	Requirements     []string             `json:"requirements,omitempty"`
	Responsibilities []string             `json:"responsibilities,omitempty"`
	Benefits         []string             `json:"benefits,omitempty"`
	TechStack        []string             `json:"techStack,omitempty"`
	Seniority        string               `json:"seniority,omitempty"`
	Team             string               `json:"team,omitempty"`
	CompanyProfile   *CompanyProfile      `json:"companyProfile,omitempty"`
	Discovered       []JobSummary         `json:"discovered,omitempty"`

	Parser       string   `json:"parser"`
	ContentScore int      `json:"contentScore"`
	Warnings     []string `json:"warnings,omitempty"`
}

// Posting maps the rich form down to the shared JobPosting schema.
func (p *ParsedJob) Posting() domain.JobPosting {
	jp := domain.JobPosting{
		Source:       p.Source,
		URL:          p.URL,
		Title:        p.Title,
		Company:      p.Company,
		Location:     p.Location,
		Description:  p.DescriptionText,
		Salary:       p.Salary,
		RemoteOK:     p.RemoteOK,
		Requirements: p.Requirements,
		Seniority:    p.Seniority,
		Team:         p.Team,
		Tags:         p.Tags,
	}
	if len(jp.Tags) == 0 {
		jp.Tags = p.TechStack
	}
	jp.ApplyDefaults()
	return jp
}
