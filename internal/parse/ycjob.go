package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/normalize"
)

// ycJobParser extracts job pages under ycombinator.com/companies/<co>/jobs/.
// YC pages segment content with ycdc-section-title headings and keep the
// body in prose containers.
type ycJobParser struct{}

func (ycJobParser) Name() string { return TagYCJob }

func (ycJobParser) Detect(url string, doc *goquery.Document) bool {
	low := strings.ToLower(url)
	if !strings.Contains(low, "ycombinator.com/companies/") || !strings.Contains(low, "/jobs/") {
		return false
	}
	return doc.Find("h1.ycdc-section-title, div.prose").Length() > 0
}

func (p ycJobParser) Parse(url string, doc *goquery.Document) *ParsedJob {
	job := &ParsedJob{Parser: p.Name(), URL: url, Source: "Y Combinator"}

	h1 := doc.Find("h1.ycdc-section-title").First()
	job.Title = normalize.Collapse(h1.Text())
	if job.Title == "" {
		job.Title = normalize.Collapse(doc.Find("h1").First().Text())
	}

	// company block: name before the first separator dot
	if blk := normalize.Collapse(doc.Find("div.space-y-1").First().Text()); blk != "" {
		job.Company = strings.TrimSpace(strings.SplitN(blk, "·", 2)[0])
	}
	if job.Company == "" {
		job.Company = companyFromTitleTag(doc, true)
	}

	blocks := collectSections(doc.Selection, "h2.ycdc-section-title")
	if len(blocks) == 0 {
		blocks = collectSections(doc.Selection, "h2, h3")
	}
	fillFromSections(job, blocks)

	if h1.Length() > 0 {
		header := h1.Parent().Text()
		if loc, tier := normalize.ClassifyLocation(header); tier == normalize.TierRemote {
			job.Location = loc
		}
		nearTitleMeta(job, header)
	}
	if !job.RemoteOK {
		job.RemoteOK = normalize.IsRemoteText(job.Location, job.Title, job.DescriptionText)
	}
	job.ContentScore = familyScore(job)
	job.CompanyProfile = profileFromDocument(doc, job)
	return job
}
