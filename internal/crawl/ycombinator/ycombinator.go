// Package ycombinator crawls the YC jobs listing. Rows carry batch markers
// and dashed "Company - Role (Location)" titles, so extraction differs from
// the hnjobs phrasing heuristics.
package ycombinator

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
	sourceKey  = "ycombinator"
	sourceName = "Y Combinator"
	baseURL    = "https://news.ycombinator.com/jobs"
)

type Crawler struct {
	deps crawl.Deps
}

func New(deps crawl.Deps) *Crawler {
	return &Crawler{deps: deps}
}

func (c *Crawler) Name() string { return sourceKey }

func (c *Crawler) Crawl(ctx context.Context, p crawl.Params) ([]domain.JobPosting, error) {
	return crawl.Run(ctx, c.deps, sourceKey, baseURL, p, parsePage,
		func(doc *goquery.Document, pageURL string) string {
			return crawl.MoreLink(doc, baseURL)
		},
	)
}

func parsePage(doc *goquery.Document, pageURL string, budget int) []domain.JobPosting {
	var jobs []domain.JobPosting

	doc.Find("tr.athing").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if budget > 0 && len(jobs) >= budget {
			return false
		}

		a := row.Find("span.titleline > a").First()
		if a.Length() == 0 {
			return true
		}
		title := normalize.Collapse(a.Text())
		if title == "" || strings.EqualFold(title, "more") {
			return true
		}

		href, _ := a.Attr("href")
		jobURL := crawl.ResolveURL(pageURL, href)

		company, location := guessCompanyLocation(title)
		remote := normalize.IsRemoteText(title)

		var tags []string
		if batch := crawl.YCBatch(title); batch != "" {
			tags = append(tags, batch)
		}
		if remote {
			tags = append(tags, "Remote")
		}
		if location != "" && location != "Remote" {
			tags = append(tags, location)
		}

		job := domain.JobPosting{
			Source:   sourceName,
			URL:      jobURL,
			Title:    title,
			Company:  company,
			Location: location,
			RemoteOK: remote,
			Tags:     tags,
		}
		job.ApplyDefaults()
		jobs = append(jobs, job)
		return true
	})
	return jobs
}

var (
	parenRe       = regexp.MustCompile(`\(([^)]+)\)`)
	batchParenRe  = regexp.MustCompile(`\bYC\b|\b[SWF]\d{2}\b`)
	dashSplitRe   = regexp.MustCompile(`^([^—\-:|]+?)\s*[—\-:|]\s*`)
	atCompanyRe   = regexp.MustCompile(`\bat\s+([A-Z][\w .&+-]{1,60})$`)
	ycStartRe     = regexp.MustCompile(`^([A-Z][\w .&+-]{1,60})\s*\(YC\b[^)]*\)`)
	hiringStartRe = regexp.MustCompile(`(?i)^([A-Z][\w .&+-]{1,60}?)\s+(?:is\s+)?hiring\b`)
	hiringTailRe  = regexp.MustCompile(`(?i)\b(is\s+hiring|hiring)\b.*$`)
	ycSuffixRe    = regexp.MustCompile(`\s*\(YC\b[^)]*\)\s*$`)
)

// guessCompanyLocation parses listing titles like
// "Prosper AI (YC S23) Is Hiring Founding Account Executives (NYC)".
func guessCompanyLocation(title string) (string, string) {
	t := strings.TrimSpace(title)

	// last parenthetical as location candidate, unless it is a batch marker
	location := ""
	if groups := parenRe.FindAllStringSubmatch(t, -1); len(groups) > 0 {
		candidate := strings.TrimSpace(groups[len(groups)-1][1])
		if candidate != "" && !batchParenRe.MatchString(candidate) {
			location, _ = normalize.ClassifyLocation(candidate)
		}
	}

	company := ""
	switch {
	case dashSplitRe.MatchString(t):
		company = strings.TrimSpace(dashSplitRe.FindStringSubmatch(t)[1])
	case atCompanyRe.MatchString(t):
		company = strings.TrimSpace(atCompanyRe.FindStringSubmatch(t)[1])
	case ycStartRe.MatchString(t):
		company = strings.TrimSpace(ycStartRe.FindStringSubmatch(t)[1])
	case hiringStartRe.MatchString(t):
		company = strings.TrimSpace(hiringStartRe.FindStringSubmatch(t)[1])
	}
	if company != "" {
		company = strings.TrimSpace(hiringTailRe.ReplaceAllString(company, ""))
		company = strings.Trim(company, " —-|:.,")
		company = strings.TrimSpace(ycSuffixRe.ReplaceAllString(company, ""))
	}
	return company, location
}
