// Package hackernews crawls the monthly "Ask HN: Who is hiring?" thread.
// The thread is discovered out of band through the Algolia HN search API,
// with the whoishiring submissions page as fallback; top-level comments are
// then parsed from the item HTML, following in-thread "More" pagination.
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/crawl"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/normalize"
)

const (
	sourceKey  = "hackernews"
	sourceName = "Hacker News"
	hnBase     = "https://news.ycombinator.com"
	algoliaAPI = "https://hn.algolia.com/api/v1/search"
)

type Crawler struct {
	deps crawl.Deps
	// now is swappable so tests can pin the discovery month
	now func() time.Time
	// endpoints are fields so tests can point them at a local server
	algolia   string
	base      string
	submitted string
}

func New(deps crawl.Deps) *Crawler {
	return &Crawler{
		deps:      deps,
		now:       time.Now,
		algolia:   algoliaAPI,
		base:      hnBase,
		submitted: hnBase + "/submitted?id=whoishiring",
	}
}

func (c *Crawler) Name() string { return sourceKey }

func (c *Crawler) Crawl(ctx context.Context, p crawl.Params) ([]domain.JobPosting, error) {
	if cached, ok := c.deps.Cache.Get(sourceKey); ok {
		return crawl.FilterKeywords(cached, p.Keywords), nil
	}

	threadURL := c.discoverThreadURL(ctx)
	if threadURL == "" {
		c.deps.Log.Warn("could not discover the who-is-hiring thread")
		return nil, &crawl.FetchError{Source: sourceKey, URL: c.algolia}
	}

	return crawl.Run(ctx, c.deps, sourceKey, threadURL, p,
		func(doc *goquery.Document, pageURL string, budget int) []domain.JobPosting {
			return parseTopLevelComments(doc, c.base, budget)
		},
		func(doc *goquery.Document, pageURL string) string {
			return crawl.MoreLink(doc, c.base+"/")
		},
	)
}

// discoverThreadURL resolves the current month's thread via Algolia, then
// falls back to scanning the whoishiring submissions page.
func (c *Crawler) discoverThreadURL(ctx context.Context) string {
	query := fmt.Sprintf("Ask HN: Who is hiring? (%s)", c.now().UTC().Format("January 2006"))
	searchURL := c.algolia + "?query=" + url.QueryEscape(query) + "&tags=story"

	if body, ok := c.deps.Fetcher.Fetch(ctx, searchURL); ok {
		if id := bestHitID(body); id != "" {
			return c.base + "/item?id=" + id
		}
	}

	body, ok := c.deps.Fetcher.Fetch(ctx, c.submitted)
	if !ok {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var found string
	doc.Find("span.titleline > a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if !whoIsHiringRe.MatchString(strings.TrimSpace(a.Text())) {
			return true
		}
		if href, ok := a.Attr("href"); ok {
			found = crawl.ResolveURL(c.base+"/", href)
			return false
		}
		return true
	})
	return found
}

var whoIsHiringRe = regexp.MustCompile(`(?i)^Ask HN:\s*Who\s+is\s+hiring\?`)

// bestHitID picks the highest-scoring Algolia hit.
func bestHitID(body string) string {
	var res struct {
		Hits []struct {
			ObjectID string `json:"objectID"`
			Points   int    `json:"points"`
		} `json:"hits"`
	}
	if err := json.Unmarshal([]byte(body), &res); err != nil || len(res.Hits) == 0 {
		return ""
	}
	best := res.Hits[0]
	for _, h := range res.Hits[1:] {
		if h.Points > best.Points {
			best = h
		}
	}
	return best.ObjectID
}

// parseTopLevelComments extracts one posting per top-level comment. Nested
// replies (indent > 0) and sub-minimum comments are skipped; per-item parse
// trouble skips the item, never the page.
func parseTopLevelComments(doc *goquery.Document, base string, budget int) []domain.JobPosting {
	var jobs []domain.JobPosting

	doc.Find("tr.athing.comtr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if budget > 0 && len(jobs) >= budget {
			return false
		}
		if !isTopLevel(row) {
			return true
		}

		comm := row.Find("span.commtext").First()
		if comm.Length() == 0 {
			return true
		}

		desc := normalize.Text(commentText(comm))
		if len(desc) < 60 {
			return true
		}

		rawHTML, _ := goquery.OuterHtml(comm)
		permalink := ""
		if href, ok := row.Find("span.age > a").First().Attr("href"); ok {
			permalink = crawl.ResolveURL(base+"/", href)
		}
		jobURL := firstExternalLink(comm)
		if jobURL == "" {
			jobURL = permalink
		}
		if jobURL == "" {
			return true
		}

		company, title := guessCompanyAndTitle(desc)
		job := domain.JobPosting{
			Source:      sourceName,
			URL:         jobURL,
			Title:       title,
			Company:     company,
			Location:    guessLocation(desc),
			Description: domain.TruncateDescription(desc),
			RemoteOK:    normalize.IsRemoteText(desc),
			Seniority:   guessSeniority(desc),
			Tags:        normalize.TechStack(desc),
			RawHTML:     rawHTML,
		}
		if job.Title == "" {
			job.Title = "Software Engineer"
		}
		job.ApplyDefaults()
		jobs = append(jobs, job)
		return true
	})
	return jobs
}

// isTopLevel checks the indent image width; zero width marks a top-level
// comment. Rows without an indent cell count as top-level.
func isTopLevel(row *goquery.Selection) bool {
	w, ok := row.Find("td.ind img").First().Attr("width")
	if !ok {
		return true
	}
	return strings.TrimSpace(w) == "0"
}

// commentText flattens the comment body, keeping paragraph boundaries so the
// first line stays usable for company/title heuristics.
func commentText(comm *goquery.Selection) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(ownText(comm)))
	comm.Find("p").Each(func(_ int, p *goquery.Selection) {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(p.Text()))
	})
	if b.Len() == 0 {
		return comm.Text()
	}
	return b.String()
}

// ownText is the text of sel excluding descendant block elements.
func ownText(sel *goquery.Selection) string {
	clone := sel.Clone()
	clone.Find("p, div").Remove()
	return clone.Text()
}

func firstExternalLink(comm *goquery.Selection) string {
	var found string
	comm.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.Contains(href, "news.ycombinator.com") || strings.HasPrefix(href, "item?id=") {
			return true
		}
		found = href
		return false
	})
	return found
}

var (
	headlineRe  = regexp.MustCompile(`^\s*([A-Z][\w .&+-]{1,60}?)\s*[—\-|:]\s*(.+)$`)
	hiringRe    = regexp.MustCompile(`(?i)^\s*([A-Z][\w .&+-]{1,60}?)\s+(?:is\s+)?hiring\s+(.+)$`)
	atCompanyRe = regexp.MustCompile(`\bat\s+([A-Z][\w .&+-]{1,60})\b`)
	ycSuffixRe  = regexp.MustCompile(`\s*\(YC\b[^)]*\)\s*$`)
	parenTailRe = regexp.MustCompile(`\s*[\(\[][^)\]]+[\)\]]\s*$`)
	locationRe  = regexp.MustCompile(`(?i)locations?\s*[:\-]\s*([^\n]+)`)
	batchLikeRe = regexp.MustCompile(`\bYC\b|\b[SWF]\d{2}\b`)
	staffRe     = regexp.MustCompile(`\bstaff\b`)
)

// guessCompanyAndTitle applies the conventional first-line formats of
// who-is-hiring comments: "Company | Role | ...", "Company is hiring Role",
// "Role at Company".
func guessCompanyAndTitle(desc string) (string, string) {
	firstLine := strings.SplitN(desc, "\n", 2)[0]

	if m := headlineRe.FindStringSubmatch(firstLine); m != nil {
		company := strings.TrimSpace(ycSuffixRe.ReplaceAllString(m[1], ""))
		title := strings.TrimSpace(parenTailRe.ReplaceAllString(m[2], ""))
		return company, title
	}
	if m := hiringRe.FindStringSubmatch(firstLine); m != nil {
		company := strings.TrimSpace(ycSuffixRe.ReplaceAllString(m[1], ""))
		title := strings.TrimSpace(parenTailRe.ReplaceAllString(m[2], ""))
		return company, title
	}
	if m := atCompanyRe.FindStringSubmatchIndex(firstLine); m != nil {
		company := strings.TrimSpace(ycSuffixRe.ReplaceAllString(firstLine[m[2]:m[3]], ""))
		title := strings.Trim(firstLine[:m[0]], " -—|:")
		return company, title
	}
	return "", extractRoleLine(desc)
}

var roleTerms = []string{"engineer", "developer", "manager", "scientist", "designer", "analyst", "lead", "architect"}

// extractRoleLine scans the first few lines for something that reads like a
// role name.
func extractRoleLine(desc string) string {
	lines := strings.Split(desc, "\n")
	if len(lines) > 3 {
		lines = lines[:3]
	}
	for _, line := range lines {
		low := strings.ToLower(line)
		for _, term := range roleTerms {
			if strings.Contains(low, term) {
				title := strings.TrimSpace(parenTailRe.ReplaceAllString(line, ""))
				if len(title) > 120 {
					title = title[:120]
				}
				return title
			}
		}
	}
	return ""
}

func guessLocation(desc string) string {
	if m := locationRe.FindStringSubmatch(desc); m != nil {
		loc, _ := normalize.ClassifyLocation(m[1])
		return loc
	}
	// trailing parenthetical on the first line, unless it is a YC batch
	firstLine := strings.SplitN(desc, "\n", 2)[0]
	if m := parenTailRe.FindString(firstLine); m != "" {
		inner := strings.Trim(m, " ([])")
		if !batchLikeRe.MatchString(inner) {
			loc, _ := normalize.ClassifyLocation(inner)
			return loc
		}
	}
	if normalize.IsRemoteText(desc) {
		return "Remote"
	}
	return ""
}

func guessSeniority(desc string) string {
	low := strings.ToLower(desc)
	switch {
	case strings.Contains(low, "principal"):
		return "principal"
	case staffRe.MatchString(low):
		return "staff"
	case strings.Contains(low, "senior") || strings.Contains(low, "sr."):
		return "senior"
	case strings.Contains(low, "junior") || strings.Contains(low, "jr."):
		return "junior"
	default:
		return ""
	}
}
