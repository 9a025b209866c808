package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"jobboard-engine/internal/crawl"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/service"
)

type searchResponse struct {
	Jobs    []domain.JobPosting `json:"jobs"`
	Summary *service.Summary    `json:"summary"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"sources": s.svc.Sources(),
	})
}

func (s *Server) listResources(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{"sources": s.svc.Sources()})
}

// resourceByPath serves GET /resources/{source}: the current postings of one
// enabled source, crawled with default bounds when the cache is cold.
func (s *Server) resourceByPath(w http.ResponseWriter, r *http.Request) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/resources/"), "/")
	if name == "" {
		s.listResources(w, r)
		return
	}

	jobs, err := s.svc.SourcePostings(r.Context(), name)
	var ve *service.SourceValidationError
	var fe *crawl.FetchError
	switch {
	case errors.As(err, &ve):
		WriteError(w, r, http.StatusNotFound, "unknown_source", ve.Error())
		return
	case errors.As(err, &fe):
		WriteError(w, r, http.StatusBadGateway, "source_unreachable", fe.Error())
		return
	case err != nil:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"source": name, "jobs": jobs})
}

// searchJobs serves POST /tools/search_jobs. When streaming is enabled the
// run is executed through the stream pipeline and every event is relayed to
// SSE subscribers while the batch response accumulates.
func (s *Server) searchJobs(w http.ResponseWriter, r *http.Request) {
	var q service.Query
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil && err != io.EOF {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	var (
		jobs    []domain.JobPosting
		summary *service.Summary
		err     error
	)
	if s.features.Stream {
		jobs, summary, err = s.searchRelaying(r, q)
	} else {
		jobs, summary, err = s.svc.SearchJobs(r.Context(), q)
	}

	var ve *service.SourceValidationError
	switch {
	case errors.As(err, &ve):
		WriteError(w, r, http.StatusBadRequest, "invalid_sources", ve.Error())
		return
	case err != nil:
		WriteError(w, r, http.StatusBadGateway, "search_failed", err.Error())
		return
	}
	if jobs == nil {
		jobs = []domain.JobPosting{}
	}
	WriteJSON(w, http.StatusOK, searchResponse{Jobs: jobs, Summary: summary})
}

func (s *Server) searchRelaying(r *http.Request, q service.Query) ([]domain.JobPosting, *service.Summary, error) {
	stream, err := s.svc.SearchJobsStream(r.Context(), q)
	if err != nil {
		return nil, nil, err
	}

	var (
		jobs    []domain.JobPosting
		summary *service.Summary
	)
	for e := range stream {
		s.hub.PublishJSON(e)
		switch e.Type {
		case service.EventJob:
			jobs = append(jobs, *e.Job)
		case service.EventComplete:
			summary = e.Summary
		}
	}
	if summary == nil {
		// the stream closed early; the only cause is cancellation
		if err := r.Context().Err(); err != nil {
			return nil, nil, err
		}
		return nil, nil, errors.New("stream ended without completing")
	}
	return jobs, summary, nil
}

// serveSSE relays hub messages to one subscriber until it disconnects.
func (s *Server) serveSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, r, http.StatusInternalServerError, "stream_unsupported", "streaming unsupported")
		return
	}

	ch := s.hub.Subscribe()
	defer s.hub.Unsubscribe(ch)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg := <-ch:
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
