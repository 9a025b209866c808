// Package crawl holds the shared crawling contract: the Crawler interface,
// the pagination loop every source reuses, and the keyword filter. Source
// specifics (selectors, title heuristics) live in the per-source packages.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"jobboard-engine/internal/cache"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/fetch"
	"jobboard-engine/internal/metrics"
)

// Params bounds one crawl run.
type Params struct {
	Keywords       []string
	MaxPages       int
	PerSourceLimit int

	// Observer, when set, receives page lifecycle notifications for this
	// run. Cache hits bypass pagination and notify nothing.
	Observer Observer
}

// Observer is notified around each page of a live crawl. Calls arrive from
// the crawling goroutine, in pagination order.
type Observer interface {
	PageStart(source string, page int, url string)
	PageComplete(source string, page, jobs int)
}

// Crawler is one job source. Crawl returns partial results on mid-run fetch
// failures; it errors only when the source could not be reached at all.
type Crawler interface {
	Name() string
	Crawl(ctx context.Context, p Params) ([]domain.JobPosting, error)
}

// Deps is the shared plumbing handed to every source crawler.
type Deps struct {
	Fetcher *fetch.Fetcher
	Cache   *cache.PageCache
	Log     *zap.Logger
}

// FetchError reports that a source's start URL could not be fetched at all.
type FetchError struct {
	Source string
	URL    string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("crawl %s: fetch failed for %s", e.Source, e.URL)
}

// PageFunc extracts postings from one fetched page. budget caps how many
// postings the page may still contribute; 0 means unbounded.
type PageFunc func(doc *goquery.Document, pageURL string, budget int) []domain.JobPosting

// NextFunc discovers the next page URL, or "" to stop.
type NextFunc func(doc *goquery.Document, pageURL string) string

// Run is the pagination loop shared by all sources: cache check, then
// fetch/parse/append pages until there is no next page, MaxPages is reached,
// or the per-source limit fills up. The fresh result replaces the cache
// wholesale before keyword filtering.
func Run(ctx context.Context, deps Deps, source, startURL string, p Params, parsePage PageFunc, next NextFunc) ([]domain.JobPosting, error) {
	if cached, ok := deps.Cache.Get(source); ok {
		deps.Log.Debug("serving from cache", zap.String("source", source), zap.Int("jobs", len(cached)))
		return FilterKeywords(cached, p.Keywords), nil
	}

	var jobs []domain.JobPosting
	pageURL := startURL
	pages := 0

	for pageURL != "" && pages < p.MaxPages {
		if p.Observer != nil {
			p.Observer.PageStart(source, pages+1, pageURL)
		}
		html, ok := deps.Fetcher.Fetch(ctx, pageURL)
		if !ok {
			// a cancelled run must leave the cache untouched
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if pages == 0 {
				return nil, &FetchError{Source: source, URL: startURL}
			}
			deps.Log.Warn("fetch failed mid-run, returning partial results",
				zap.String("source", source), zap.String("url", pageURL), zap.Int("jobs", len(jobs)))
			break
		}
		pages++

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			deps.Log.Warn("bad page html", zap.String("source", source), zap.String("url", pageURL), zap.Error(err))
			break
		}

		budget := 0
		if p.PerSourceLimit > 0 {
			budget = p.PerSourceLimit - len(jobs)
		}
		pageJobs := parsePage(doc, pageURL, budget)
		jobs = append(jobs, pageJobs...)
		deps.Log.Debug("page crawled",
			zap.String("source", source), zap.Int("page", pages), zap.Int("jobs", len(pageJobs)))
		if p.Observer != nil {
			p.Observer.PageComplete(source, pages, len(pageJobs))
		}

		if p.PerSourceLimit > 0 && len(jobs) >= p.PerSourceLimit {
			jobs = jobs[:p.PerSourceLimit]
			break
		}
		pageURL = next(doc, pageURL)
	}

	deps.Cache.Put(source, jobs)
	metrics.PostingsEmitted.WithLabelValues(source).Add(float64(len(jobs)))
	return FilterKeywords(jobs, p.Keywords), nil
}

// FilterKeywords keeps postings whose title, company, or description
// contains any keyword, case-insensitively. Empty keywords pass everything.
func FilterKeywords(jobs []domain.JobPosting, keywords []string) []domain.JobPosting {
	if len(keywords) == 0 {
		return jobs
	}
	low := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			low = append(low, strings.ToLower(k))
		}
	}
	if len(low) == 0 {
		return jobs
	}

	out := make([]domain.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		blob := strings.ToLower(j.Title + " " + j.Company + " " + j.Description)
		for _, k := range low {
			if strings.Contains(blob, k) {
				out = append(out, j)
				break
			}
		}
	}
	return out
}

// MoreLink finds the HN-style "More" pagination anchor and resolves it.
func MoreLink(doc *goquery.Document, baseURL string) string {
	href, ok := doc.Find("a.morelink").First().Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return ""
	}
	return ResolveURL(baseURL, strings.TrimSpace(href))
}

// NoNext is the NextFunc for single-page sources.
func NoNext(*goquery.Document, string) string { return "" }

// ResolveURL makes href absolute against base. Unparseable input comes back
// unchanged so callers can still log it.
func ResolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(h).String()
}

var ycBatchRe = regexp.MustCompile(`(?i)\b(?:YC\s*)?([SWF])\s?(\d{2})\b`)

// YCBatch extracts a YC batch marker ("YC S23", "(W24)") from a title and
// normalizes it to "YC <season><yy>".
func YCBatch(title string) string {
	m := ycBatchRe.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	return "YC " + strings.ToUpper(m[1]) + m[2]
}
