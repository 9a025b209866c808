package parse

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"jobboard-engine/internal/metrics"
)

// familyParser is one closed variant of the extraction strategy set. Detect
// may decline even on a matching domain when the DOM fingerprint is absent.
type familyParser interface {
	Name() string
	Detect(url string, doc *goquery.Document) bool
	Parse(url string, doc *goquery.Document) *ParsedJob
}

// Registry dispatches a page to exactly one parser. Detection is
// priority-ordered, not confidence-scored: family parsers first, then the
// hub/form override, then the generic fallback. A page no parser claims is
// not an error; it resolves to generic_html with a low content score.
type Registry struct {
	families []familyParser
	hub      hubFormParser
	generic  genericParser
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		families: []familyParser{ycJobParser{}, ashbyParser{}, leverParser{}, greenhouseParser{}},
		log:      log,
	}
}

// Detect returns the tag of the parser that would handle this page.
func (r *Registry) Detect(pageURL string, doc *goquery.Document) string {
	for _, p := range r.families {
		if p.Detect(pageURL, doc) {
			return p.Name()
		}
	}
	if r.hub.Detect(pageURL, doc) {
		return TagHub
	}
	return TagGeneric
}

// Parse extracts a ParsedJob from the document using the detected strategy.
// Output is deterministic for identical input, including the content score.
func (r *Registry) Parse(ctx context.Context, pageURL string, doc *goquery.Document) *ParsedJob {
	if err := ctx.Err(); err != nil {
		return &ParsedJob{Parser: TagGeneric, URL: pageURL, Warnings: []string{"cancelled"}}
	}

	tag := r.Detect(pageURL, doc)
	start := time.Now()
	defer func() {
		metrics.ParseDuration.WithLabelValues(tag).Observe(time.Since(start).Seconds())
	}()

	var job *ParsedJob
	switch tag {
	case TagHub:
		job = r.hub.Parse(pageURL, doc)
	case TagGeneric:
		job = r.generic.Parse(pageURL, doc)
	default:
		for _, p := range r.families {
			if p.Name() == tag {
				job = p.Parse(pageURL, doc)
				break
			}
		}
	}
	r.log.Debug("parsed page",
		zap.String("url", pageURL),
		zap.String("parser", job.Parser),
		zap.Int("score", job.ContentScore))
	return job
}

// ParseHTML is the string-input convenience used by the service layer and
// the crawlers.
func (r *Registry) ParseHTML(ctx context.Context, pageURL, html string) (*ParsedJob, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return r.Parse(ctx, pageURL, doc), nil
}

// resolveHref makes href absolute against the page it appeared on.
func resolveHref(base, href string) string {
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	h, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}
