package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/normalize"
)

// greenhouseParser extracts postings hosted on boards.greenhouse.io.
type greenhouseParser struct{}

func (greenhouseParser) Name() string { return TagGreenhouse }

func (greenhouseParser) Detect(url string, doc *goquery.Document) bool {
	if !strings.Contains(strings.ToLower(url), "greenhouse.io") {
		return false
	}
	return doc.Find("#app, .app, #content, .application, .opening, .job").Length() > 0
}

func (p greenhouseParser) Parse(url string, doc *goquery.Document) *ParsedJob {
	job := &ParsedJob{Parser: p.Name(), URL: url, Source: "Greenhouse"}

	job.Title = normalize.Collapse(doc.Find("h1, h2").First().Text())
	job.Company = companyFromTitleTag(doc, true)

	if loc := normalize.Collapse(doc.Find(".location").First().Text()); loc != "" {
		display, _ := normalize.ClassifyLocation(loc)
		job.Location = display
	}

	container := doc.Find("#content, .application, .opening, .job, #app, .app").First()
	if container.Length() == 0 {
		container = doc.Selection
	}
	blocks := collectSections(container, "h2, h3")
	fillFromSections(job, blocks)

	nearTitleMeta(job, doc.Find("h1, h2").First().Parent().Text())
	if !job.RemoteOK {
		job.RemoteOK = normalize.IsRemoteText(job.Location, job.Title)
	}
	job.ContentScore = familyScore(job)
	job.CompanyProfile = profileFromDocument(doc, job)
	return job
}
