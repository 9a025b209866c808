package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/normalize"
)

// ashbyParser extracts postings hosted on jobs.ashbyhq.com.
type ashbyParser struct{}

func (ashbyParser) Name() string { return TagAshby }

func (ashbyParser) Detect(url string, doc *goquery.Document) bool {
	if !strings.Contains(strings.ToLower(url), "ashbyhq.com") {
		return false
	}
	return doc.Find(".job-posting, [data-ashby-job-posting], [data-testid='job-posting']").Length() > 0
}

func (p ashbyParser) Parse(url string, doc *goquery.Document) *ParsedJob {
	job := &ParsedJob{Parser: p.Name(), URL: url, Source: "Ashby"}

	job.Title = normalize.Collapse(doc.Find("h1").First().Text())
	job.Company = companyFromTitleTag(doc, false)

	container := doc.Find(".job-posting, [data-ashby-job-posting], [data-testid='job-posting']").First()
	if container.Length() == 0 {
		container = doc.Find("main, article, .content").First()
	}
	if container.Length() == 0 {
		container = doc.Selection
	}
	blocks := collectSections(container, "h2, h3")
	fillFromSections(job, blocks)

	if loc, tier := normalize.ClassifyLocation(container.Find(".job-posting-location, [data-testid='job-location']").First().Text()); tier != normalize.TierUnknown {
		job.Location = loc
	}

	nearTitleMeta(job, doc.Find("h1").First().Parent().Text())
	if !job.RemoteOK {
		job.RemoteOK = normalize.IsRemoteText(job.Location, job.Title, job.DescriptionText)
	}
	job.ContentScore = familyScore(job)
	job.CompanyProfile = profileFromDocument(doc, job)
	return job
}
