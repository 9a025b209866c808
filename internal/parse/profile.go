package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/normalize"
)

// profileFromDocument builds the best-effort company context for a parsed
// posting: tagline from OpenGraph metadata, a careers link, and the "about"
// section when one of the walked sections carries it.
func profileFromDocument(doc *goquery.Document, job *ParsedJob) *CompanyProfile {
	prof := &CompanyProfile{Name: job.Company, Links: map[string]string{}}

	if v, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		prof.Tagline = normalize.Collapse(v)
	}
	if v, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		prof.Links["careers"] = strings.TrimSpace(v)
	} else if v, ok := doc.Find(`meta[property="og:url"]`).First().Attr("content"); ok {
		prof.Links["careers"] = strings.TrimSpace(v)
	}
	if len(prof.Links) == 0 {
		prof.Links = nil
	}

	for _, s := range job.Sections {
		if strings.Contains(strings.ToLower(s.Heading), "about") {
			prof.AboutText = s.Text
			prof.AboutHTML = s.HTML
			break
		}
	}

	if job.Location != "" {
		prof.Locations = []string{job.Location}
	}
	return prof
}
