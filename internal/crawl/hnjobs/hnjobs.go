// Package hnjobs crawls the news.ycombinator.com/jobs board. Each row is a
// single job story; company/title/location are pulled apart from the story
// title with the board's conventional phrasings.
package hnjobs

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
	sourceKey  = "hnjobs"
	sourceName = "Hacker News Jobs"
	hnBase     = "https://news.ycombinator.com"
	startURL   = hnBase + "/jobs"
)

type Crawler struct {
	deps crawl.Deps
}

func New(deps crawl.Deps) *Crawler {
	return &Crawler{deps: deps}
}

func (c *Crawler) Name() string { return sourceKey }

func (c *Crawler) Crawl(ctx context.Context, p crawl.Params) ([]domain.JobPosting, error) {
	return crawl.Run(ctx, c.deps, sourceKey, startURL, p, parsePage,
		func(doc *goquery.Document, pageURL string) string {
			return crawl.MoreLink(doc, hnBase+"/")
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
		titleText := normalize.Collapse(a.Text())
		if titleText == "" || strings.EqualFold(titleText, "more") {
			return true
		}

		itemID, _ := row.Attr("id")
		storyURL, _ := a.Attr("href")
		jobURL := crawl.ResolveURL(hnBase+"/", storyURL)
		if storyURL == "" || strings.HasPrefix(storyURL, "item?id=") {
			if itemID != "" {
				jobURL = hnBase + "/item?id=" + itemID
			}
		}

		company, title, location := splitTitle(titleText)

		var tags []string
		if batch := crawl.YCBatch(company); batch != "" {
			tags = append(tags, batch)
			company = strings.TrimSpace(ycBatchParenRe.ReplaceAllString(company, ""))
		}

		rawHTML, _ := goquery.OuterHtml(row)
		job := domain.JobPosting{
			ID:       itemID,
			Source:   sourceName,
			URL:      jobURL,
			Title:    title,
			Company:  company,
			Location: location,
			RemoteOK: normalize.IsRemoteText(titleText),
			Tags:     tags,
			RawHTML:  rawHTML,
		}
		if job.Title == "" {
			job.Title = titleText
		}
		job.ApplyDefaults()
		jobs = append(jobs, job)
		return true
	})
	return jobs
}

var (
	isHiringRe     = regexp.MustCompile(`(?i)^\s*(.+?)\s+is\s+hiring\s+(.+?)\s*$`)
	roleAtRe       = regexp.MustCompile(`(?i)^\s*(.+?)\s+at\s+(.+?)\s*$`)
	hiringRe       = regexp.MustCompile(`(?i)^\s*(.+?)\s+hiring\s+(.+?)\s*$`)
	parenRe        = regexp.MustCompile(`\(([^)]+)\)`)
	ycBatchParenRe = regexp.MustCompile(`(?i)\s*\(YC\s*[SWF]\s?\d{2}\)\s*`)
)

// splitTitle pulls company/title/location from a board row title:
// "Acme (YC S23) is hiring senior engineers (SF)" and friends.
func splitTitle(text string) (company, title, location string) {
	title = text
	location = trailingLocation(text)

	if m := isHiringRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), location
	}
	if m := roleAtRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1]), location
	}
	if m := hiringRe.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), location
	}
	return "", title, location
}

// trailingLocation inspects parentheticals right to left for something that
// reads like a place, skipping YC batch markers.
func trailingLocation(text string) string {
	groups := parenRe.FindAllStringSubmatch(text, -1)
	for i := len(groups) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(groups[i][1])
		if candidate == "" || strings.HasPrefix(strings.ToLower(candidate), "yc ") {
			continue
		}
		if looksLikeLocation(candidate) {
			loc, _ := normalize.ClassifyLocation(candidate)
			return loc
		}
	}
	return ""
}

var locationTokens = []string{
	"remote", "us", "usa", "united states", "uk", "london", "nyc", "sf",
	"san francisco", "berlin", "europe", "eu", "canada", "toronto",
	"vancouver", "australia", "singapore", "boston", "seattle", "la",
	"los angeles", "austin", "dublin", "paris", "amsterdam",
}

func looksLikeLocation(s string) bool {
	low := strings.ToLower(s)
	for _, tok := range locationTokens {
		if strings.Contains(low, tok) {
			return true
		}
	}
	// short alpha tokens like "NYC" or "SF/NY"
	if len(low) <= 6 {
		stripped := strings.NewReplacer("/", "", "-", "", " ", "").Replace(low)
		if stripped != "" && isAlpha(stripped) {
			return true
		}
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
