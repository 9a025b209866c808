// Package service is the aggregation boundary. It owns the fetcher, the
// page cache, and the enabled source crawlers; queries fan out across the
// crawlers and the merged results come back filtered and deduplicated by
// canonical URL.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobboard-engine/internal/cache"
	"jobboard-engine/internal/config"
	"jobboard-engine/internal/crawl"
	"jobboard-engine/internal/crawl/hackernews"
	"jobboard-engine/internal/crawl/hnjobs"
	"jobboard-engine/internal/crawl/workatastartup"
	"jobboard-engine/internal/crawl/ycombinator"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/fetch"
	"jobboard-engine/internal/normalize"
	"jobboard-engine/internal/parse"
	"jobboard-engine/internal/urlutil"
)

// Query selects sources and filters for one aggregation run. An empty
// Sources list means every enabled source.
type Query struct {
	Keywords       []string `json:"keywords,omitempty"`
	Sources        []string `json:"sources,omitempty"`
	Location       string   `json:"location,omitempty"`
	RemoteOnly     bool     `json:"remoteOnly,omitempty"`
	Tags           []string `json:"tags,omitempty"`
	MaxPages       int      `json:"maxPages,omitempty"`
	PerSourceLimit int      `json:"perSourceLimit,omitempty"`
}

// Summary describes one completed aggregation run.
type Summary struct {
	Total      int               `json:"total"`
	BySource   map[string]int    `json:"bySource"`
	Duplicates int               `json:"duplicates"`
	Failed     map[string]string `json:"failed,omitempty"`
	ElapsedMS  int64             `json:"elapsedMs"`
}

// SourceValidationError reports unknown source names in a query. It is
// raised before any network activity.
type SourceValidationError struct {
	Names []string
}

func (e *SourceValidationError) Error() string {
	return "unknown sources: " + strings.Join(e.Names, ", ")
}

// Service wires the pipeline together for callers (CLI, protocol server).
type Service struct {
	deps     crawl.Deps
	registry *parse.Registry
	crawlers []crawl.Crawler
	byName   map[string]crawl.Crawler
	defaults crawl.Params
	log      *zap.Logger
}

// New builds a Service from configuration, constructing the fetcher, cache,
// and the crawlers enabled in cfg.Sources.
func New(cfg config.Config, log *zap.Logger) *Service {
	deps := crawl.Deps{
		Fetcher: fetch.New(fetch.Options{
			Timeout:   cfg.FetchTimeout(),
			Delay:     cfg.FetchDelay(),
			PerHost:   cfg.Fetch.PerHostRPS,
			Burst:     cfg.Fetch.PerHostBurst,
			UserAgent: cfg.Fetch.UserAgent,
		}, log),
		Cache: cache.New(cfg.CacheTTL()),
		Log:   log,
	}

	var crawlers []crawl.Crawler
	if cfg.Sources.HackerNews {
		crawlers = append(crawlers, hackernews.New(deps))
	}
	if cfg.Sources.HNJobs {
		crawlers = append(crawlers, hnjobs.New(deps))
	}
	if cfg.Sources.YCombinator {
		crawlers = append(crawlers, ycombinator.New(deps))
	}
	if cfg.Sources.WorkAtAStartup {
		crawlers = append(crawlers, workatastartup.New(deps))
	}

	defaults := crawl.Params{
		MaxPages:       cfg.Crawl.MaxPages,
		PerSourceLimit: cfg.Crawl.PerSourceLimit,
	}
	return newService(deps, defaults, log, crawlers...)
}

func newService(deps crawl.Deps, defaults crawl.Params, log *zap.Logger, crawlers ...crawl.Crawler) *Service {
	s := &Service{
		deps:     deps,
		registry: parse.NewRegistry(log),
		crawlers: crawlers,
		byName:   make(map[string]crawl.Crawler, len(crawlers)),
		defaults: defaults,
		log:      log,
	}
	for _, c := range crawlers {
		s.byName[c.Name()] = c
	}
	return s
}

// Close releases the HTTP resources held by the fetcher. The in-memory
// cache needs no teardown.
func (s *Service) Close() {
	s.deps.Fetcher.Close()
}

// Sources lists the enabled source keys in registration order.
func (s *Service) Sources() []string {
	return lo.Map(s.crawlers, func(c crawl.Crawler, _ int) string { return c.Name() })
}

// SourcePostings returns the current postings for one source, crawling with
// default bounds when the cache is cold.
func (s *Service) SourcePostings(ctx context.Context, name string) ([]domain.JobPosting, error) {
	c, ok := s.byName[name]
	if !ok {
		return nil, &SourceValidationError{Names: []string{name}}
	}
	return c.Crawl(ctx, s.defaults)
}

// SearchJobs fans the query out to the requested crawlers, each with its own
// private accumulator, then filters and deduplicates the merged results.
// A wholly failed source is recorded in the summary, not fatal; unknown
// source names fail the call before any crawling starts.
func (s *Service) SearchJobs(ctx context.Context, q Query) ([]domain.JobPosting, *Summary, error) {
	crawlers, err := s.resolve(q.Sources)
	if err != nil {
		return nil, nil, err
	}
	p := s.params(q)
	start := time.Now()

	results := make([][]domain.JobPosting, len(crawlers))
	failures := make([]error, len(crawlers))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range crawlers {
		i, c := i, c
		g.Go(func() error {
			jobs, err := c.Crawl(gctx, p)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.log.Warn("source failed", zap.String("source", c.Name()), zap.Error(err))
				failures[i] = err
				return nil
			}
			results[i] = jobs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	summary := &Summary{BySource: map[string]int{}}
	var merged []domain.JobPosting
	for i, c := range crawlers {
		if failures[i] != nil {
			if summary.Failed == nil {
				summary.Failed = map[string]string{}
			}
			summary.Failed[c.Name()] = failures[i].Error()
			continue
		}
		kept := lo.Filter(results[i], func(j domain.JobPosting, _ int) bool {
			return matchesQuery(j, q)
		})
		summary.BySource[c.Name()] = len(kept)
		merged = append(merged, kept...)
	}

	out := Dedupe(merged)
	summary.Total = len(out)
	summary.Duplicates = len(merged) - len(out)
	summary.ElapsedMS = time.Since(start).Milliseconds()
	return out, summary, nil
}

// resolve maps requested source names to crawlers, defaulting to all enabled
// ones. All unknown names are collected into one validation error.
func (s *Service) resolve(names []string) ([]crawl.Crawler, error) {
	if len(names) == 0 {
		return s.crawlers, nil
	}
	var (
		crawlers []crawl.Crawler
		unknown  []string
	)
	for _, name := range names {
		c, ok := s.byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		crawlers = append(crawlers, c)
	}
	if len(unknown) > 0 {
		return nil, &SourceValidationError{Names: unknown}
	}
	return crawlers, nil
}

func (s *Service) params(q Query) crawl.Params {
	p := crawl.Params{
		Keywords:       q.Keywords,
		MaxPages:       q.MaxPages,
		PerSourceLimit: q.PerSourceLimit,
	}
	if p.MaxPages <= 0 {
		p.MaxPages = s.defaults.MaxPages
	}
	if p.PerSourceLimit <= 0 {
		p.PerSourceLimit = s.defaults.PerSourceLimit
	}
	return p
}

// matchesQuery applies the filters the per-source crawlers do not handle:
// location (with aliases, against location+title+description), remote-only,
// and required tags.
func matchesQuery(j domain.JobPosting, q Query) bool {
	if q.RemoteOnly && !isRemote(j) {
		return false
	}
	if q.Location != "" && !matchesLocation(j, q.Location) {
		return false
	}
	if len(q.Tags) > 0 && !hasAllTags(j.Tags, q.Tags) {
		return false
	}
	return true
}

// isRemote applies the remote-only filter. A hybrid arrangement does not
// count as remote even when the posting text also mentions remote work.
func isRemote(j domain.JobPosting) bool {
	switch normalize.InferWorkMode(j.Location, j.Title, j.Description) {
	case "Remote":
		return true
	case "Hybrid":
		return false
	}
	if j.RemoteOK {
		return true
	}
	_, tier := normalize.ClassifyLocation(j.Location)
	return tier == normalize.TierRemote
}

func matchesLocation(j domain.JobPosting, want string) bool {
	blob := strings.ToLower(j.Location + " " + j.Title + " " + j.Description)
	needles := []string{strings.ToLower(want)}
	if canonical, _ := normalize.ClassifyLocation(want); canonical != "" {
		needles = append(needles, strings.ToLower(canonical))
	}
	return lo.SomeBy(needles, func(n string) bool {
		return n != "" && strings.Contains(blob, n)
	})
}

func hasAllTags(have, want []string) bool {
	set := lo.SliceToMap(have, func(t string) (string, struct{}) {
		return strings.ToLower(t), struct{}{}
	})
	return lo.EveryBy(want, func(t string) bool {
		_, ok := set[strings.ToLower(t)]
		return ok
	})
}

// Dedupe collapses postings sharing a canonical URL. The first occurrence
// survives in first-appearance order; tags are unioned case-insensitively
// keeping the first spelling, and default-valued fields are backfilled from
// the first duplicate carrying a real value.
func Dedupe(jobs []domain.JobPosting) []domain.JobPosting {
	index := make(map[string]int, len(jobs))
	out := make([]domain.JobPosting, 0, len(jobs))
	for _, j := range jobs {
		key := urlutil.Canonicalize(j.URL)
		if key == "" {
			key = j.URL
		}
		i, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, j)
			continue
		}
		mergeDuplicate(&out[i], j)
	}
	return out
}

func mergeDuplicate(dst *domain.JobPosting, src domain.JobPosting) {
	dst.Tags = unionTags(dst.Tags, src.Tags)
	if dst.Company == domain.UnknownCompany && src.Company != "" && src.Company != domain.UnknownCompany {
		dst.Company = src.Company
	}
	if dst.Location == domain.UnknownLocation && src.Location != "" && src.Location != domain.UnknownLocation {
		dst.Location = src.Location
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.Salary == "" {
		dst.Salary = src.Salary
	}
	dst.RemoteOK = dst.RemoteOK || src.RemoteOK
}

func unionTags(a, b []string) []string {
	all := make([]string, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return lo.UniqBy(all, strings.ToLower)
}
