package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/normalize"
)

// leverParser extracts postings hosted on jobs.lever.co. Lever wraps the
// whole posting in .posting with a .posting-headline block and category
// spans (location, commitment, department) next to the title.
type leverParser struct{}

func (leverParser) Name() string { return TagLever }

func (leverParser) Detect(url string, doc *goquery.Document) bool {
	if !strings.Contains(strings.ToLower(url), "lever.co") {
		return false
	}
	return doc.Find(".posting, .posting-headline").Length() > 0
}

func (p leverParser) Parse(url string, doc *goquery.Document) *ParsedJob {
	job := &ParsedJob{Parser: p.Name(), URL: url, Source: "Lever"}

	headline := doc.Find(".posting-headline").First()
	if headline.Length() == 0 {
		headline = doc.Selection
	}
	job.Title = normalize.Collapse(headline.Find("h2, h1").First().Text())
	job.Company = companyFromTitleTag(doc, true)

	// category spans near the title
	cats := doc.Find(".posting-categories").First()
	if loc := normalize.Collapse(cats.Find(".location").First().Text()); loc != "" {
		display, _ := normalize.ClassifyLocation(loc)
		job.Location = display
	}
	job.Team = normalize.Collapse(cats.Find(".department").First().Text())
	if c := normalize.Collapse(cats.Find(".commitment").First().Text()); c != "" {
		job.Tags = append(job.Tags, c)
	}

	container := doc.Find(".posting").First()
	if container.Length() == 0 {
		container = doc.Find(".posting-description").First()
	}
	if container.Length() == 0 {
		container = doc.Selection
	}
	blocks := collectSections(container, "h2, h3")
	fillFromSections(job, blocks)

	nearTitleMeta(job, headline.Text()+" "+cats.Text())
	if !job.RemoteOK {
		job.RemoteOK = normalize.IsRemoteText(job.Location, job.Title)
	}
	job.ContentScore = familyScore(job)
	job.CompanyProfile = profileFromDocument(doc, job)
	return job
}
