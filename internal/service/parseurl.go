package service

import (
	"context"
	"errors"
	"strings"

	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/parse"
	"jobboard-engine/internal/urlutil"
)

// ErrMissingURL is returned when ParseJobURL is called without a URL.
var ErrMissingURL = errors.New("Missing url")

// ParseJobURL fetches one page and runs it through the parser registry.
// When the page cannot be fetched at all, the posting is reconstructed from
// the URL alone (company from the host, title from the last path segment)
// so automation callers still get a well-formed answer offline.
func (s *Service) ParseJobURL(ctx context.Context, raw string) (*domain.JobPosting, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMissingURL
	}

	body, ok := s.deps.Fetcher.Fetch(ctx, raw)
	if !ok {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return offlinePosting(raw), nil
	}

	parsed, err := s.registry.ParseHTML(ctx, raw, body)
	if err != nil {
		return nil, err
	}
	return postingFromParsed(raw, parsed), nil
}

func postingFromParsed(raw string, parsed *parse.ParsedJob) *domain.JobPosting {
	j := parsed.Posting()
	if j.URL == "" {
		j.URL = raw
	}
	if j.Source == "" {
		j.Source = urlutil.Host(raw)
	}
	if j.Title == "" {
		j.Title = urlutil.TitleFromPath(raw)
	}
	j.Description = domain.TruncateDescription(j.Description)
	j.ApplyDefaults()
	return &j
}

// offlinePosting is the no-network fallback shape.
func offlinePosting(raw string) *domain.JobPosting {
	host := urlutil.Host(raw)
	j := &domain.JobPosting{
		Source:   host,
		URL:      raw,
		Title:    urlutil.TitleFromPath(raw),
		Company:  urlutil.CompanyFromHost(host),
		Location: domain.UnknownLocation,
	}
	if j.Title == "" {
		j.Title = "Job Posting"
	}
	j.ApplyDefaults()
	return j
}
