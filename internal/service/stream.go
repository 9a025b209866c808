package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jobboard-engine/internal/crawl"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/urlutil"
)

// Stream event types, in protocol order.
const (
	EventStart          = "start"
	EventSourceStart    = "source_start"
	EventPageStart      = "page_start"
	EventJob            = "job"
	EventPageComplete   = "page_complete"
	EventSourceComplete = "source_complete"
	EventComplete       = "complete"
	EventError          = "error"
)

// Event is one entry in the sequence produced by SearchJobsStream. Every
// event of a run carries the same RunID.
type Event struct {
	Type    string             `json:"type"`
	RunID   string             `json:"runId"`
	At      time.Time          `json:"at"`
	Source  string             `json:"source,omitempty"`
	Page    int                `json:"page,omitempty"`
	URL     string             `json:"url,omitempty"`
	Jobs    int                `json:"jobs,omitempty"`
	Job     *domain.JobPosting `json:"job,omitempty"`
	Error   string             `json:"error,omitempty"`
	Summary *Summary           `json:"summary,omitempty"`
}

// SearchJobsStream runs the same pipeline as SearchJobs but yields progress
// as a single-producer event sequence: start, then per source source_start,
// page_start/page_complete around each fetched page, a job event per
// accepted posting, source_complete, and finally complete with totals, with
// an error event for any wholly failed source. Sources run one after another
// so events arrive in pagination order. Cancelling ctx closes the channel
// early without a synthetic complete. Every job event corresponds to a
// posting the equivalent batch call would return; tags merged from later
// duplicates are the one thing the streamed copy can miss.
func (s *Service) SearchJobsStream(ctx context.Context, q Query) (<-chan Event, error) {
	crawlers, err := s.resolve(q.Sources)
	if err != nil {
		return nil, err
	}
	p := s.params(q)

	out := make(chan Event, 16)
	runID := uuid.NewString()

	go func() {
		defer close(out)

		emit := func(e Event) bool {
			e.RunID = runID
			e.At = time.Now().UTC()
			select {
			case out <- e:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit(Event{Type: EventStart}) {
			return
		}

		start := time.Now()
		seen := map[string]bool{}
		summary := &Summary{BySource: map[string]int{}}

		for _, c := range crawlers {
			if ctx.Err() != nil {
				return
			}
			name := c.Name()
			if !emit(Event{Type: EventSourceStart, Source: name}) {
				return
			}

			run := p
			run.Observer = observerFunc(emit)
			jobs, err := c.Crawl(ctx, run)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if summary.Failed == nil {
					summary.Failed = map[string]string{}
				}
				summary.Failed[name] = err.Error()
				if !emit(Event{Type: EventError, Source: name, Error: err.Error()}) {
					return
				}
				continue
			}

			accepted := 0
			for i := range jobs {
				j := jobs[i]
				if !matchesQuery(j, q) {
					continue
				}
				key := urlutil.Canonicalize(j.URL)
				if key == "" {
					key = j.URL
				}
				if seen[key] {
					summary.Duplicates++
					continue
				}
				seen[key] = true
				accepted++
				if !emit(Event{Type: EventJob, Source: name, Job: &j}) {
					return
				}
			}
			summary.BySource[name] = accepted
			summary.Total += accepted

			if !emit(Event{Type: EventSourceComplete, Source: name, Jobs: accepted}) {
				return
			}
		}

		summary.ElapsedMS = time.Since(start).Milliseconds()
		emit(Event{Type: EventComplete, Summary: summary})
	}()

	return out, nil
}

// observerFunc adapts the emit closure to the crawl page observer.
type observerFunc func(Event) bool

var _ crawl.Observer = observerFunc(nil)

func (f observerFunc) PageStart(source string, page int, url string) {
	f(Event{Type: EventPageStart, Source: source, Page: page, URL: url})
}

func (f observerFunc) PageComplete(source string, page, jobs int) {
	f(Event{Type: EventPageComplete, Source: source, Page: page, Jobs: jobs})
}
