// Package workatastartup crawls the Work at a Startup job-card grid. The
// page loads everything at once, so there is no pagination.
package workatastartup

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/crawl"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/normalize"
)

const (
	sourceKey  = "workatastartup"
	sourceName = "Work at a Startup"
	baseURL    = "https://www.workatastartup.com"
	startURL   = baseURL + "/jobs"
)

type Crawler struct {
	deps crawl.Deps
}

func New(deps crawl.Deps) *Crawler {
	return &Crawler{deps: deps}
}

func (c *Crawler) Name() string { return sourceKey }

func (c *Crawler) Crawl(ctx context.Context, p crawl.Params) ([]domain.JobPosting, error) {
	return crawl.Run(ctx, c.deps, sourceKey, startURL, p, parsePage, crawl.NoNext)
}

func parsePage(doc *goquery.Document, pageURL string, budget int) []domain.JobPosting {
	var jobs []domain.JobPosting

	doc.Find("div.company-jobs div.jobs-list > div").EachWithBreak(func(_ int, container *goquery.Selection) bool {
		if budget > 0 && len(jobs) >= budget {
			return false
		}
		container.Find("div.w-full.bg-beige-lighter").EachWithBreak(func(_ int, card *goquery.Selection) bool {
			if budget > 0 && len(jobs) >= budget {
				return false
			}
			if job, ok := parseCard(card); ok {
				jobs = append(jobs, job)
			}
			return true
		})
		return true
	})
	return jobs
}

// parseCard extracts one posting from a job card. Cards missing the company
// or job link are skipped; a bad card never aborts the page.
func parseCard(card *goquery.Selection) (domain.JobPosting, bool) {
	if card.Find("a[target='company']").Length() == 0 {
		return domain.JobPosting{}, false
	}
	details := card.Find(".company-details").First()
	if details.Length() == 0 {
		return domain.JobPosting{}, false
	}

	company, batch := parseCompanyAndBatch(normalize.Collapse(details.Text()))
	companyDesc := normalize.Collapse(details.Find(".text-gray-600").First().Text())

	jobLink := card.Find("a[target='job']").First()
	if jobLink.Length() == 0 {
		return domain.JobPosting{}, false
	}
	title := normalize.Collapse(jobLink.Text())
	href, _ := jobLink.Attr("href")
	jobURL := crawl.ResolveURL(baseURL, strings.TrimSpace(href))
	jobID, _ := jobLink.Attr("data-jobid")

	location, jobType, category := parseJobDetails(card.Find(".job-details").First())
	remote := normalize.IsRemoteText(location, title, companyDesc)

	var tags []string
	if batch != "" {
		tags = append(tags, batch)
	}
	if category != "" {
		tags = append(tags, category)
	}
	if remote {
		tags = append(tags, "Remote")
	}

	rawHTML, _ := goquery.OuterHtml(card)
	job := domain.JobPosting{
		ID:          jobID,
		Source:      sourceName,
		URL:         jobURL,
		Title:       title,
		Company:     company,
		Location:    location,
		Description: domain.TruncateDescription(companyDesc),
		JobType:     jobType,
		RemoteOK:    remote,
		Tags:        tags,
		RawHTML:     rawHTML,
	}
	job.ApplyDefaults()
	return job, title != "" && jobURL != ""
}

var companyBatchRe = regexp.MustCompile(`^([^(]+?)(?:\s*\(([^)]+)\))?\s*(?:•|$)`)

// parseCompanyAndBatch splits "Company (YC S23) • tagline" card text.
func parseCompanyAndBatch(text string) (string, string) {
	m := companyBatchRe.FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	company := strings.TrimSpace(m[1])
	if m[2] == "" {
		return company, ""
	}
	return company, crawl.YCBatch(m[2])
}

var (
	jobTypeWords  = []string{"fulltime", "full-time", "part-time", "parttime", "contract", "internship"}
	categoryWords = []string{"backend", "frontend", "full stack", "fullstack", "devops", "ml", "ios", "android", "embedded", "hardware"}
	placeWords    = []string{"remote", "san francisco", "new york", "palo alto", "united states", "hybrid", "santa clara", "philadelphia", "austin", "anywhere"}
)

// parseJobDetails classifies the card's detail spans into location, job
// type, and category.
func parseJobDetails(details *goquery.Selection) (location, jobType, category string) {
	if details == nil || details.Length() == 0 {
		return "", "", ""
	}

	var parts []string
	seen := map[string]bool{}
	details.Find("span").Each(func(_ int, span *goquery.Selection) {
		t := normalize.Collapse(span.Text())
		if t != "" && !seen[t] {
			seen[t] = true
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		for _, p := range strings.FieldsFunc(details.Text(), func(r rune) bool { return r == '•' || r == '|' }) {
			if p = normalize.Collapse(p); p != "" {
				parts = append(parts, p)
			}
		}
	}

	for _, part := range parts {
		low := strings.ToLower(part)
		switch {
		case containsAny(low, jobTypeWords):
			jobType = part
		case containsAny(low, categoryWords):
			category = part
		case containsAny(low, placeWords) || strings.Contains(part, ", "):
			location, _ = normalize.ClassifyLocation(part)
		}
	}
	return location, jobType, category
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
