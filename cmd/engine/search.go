package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"jobboard-engine/internal/service"
)

// runSearch streams a crawl run to the terminal: one JSON event per line
// with -json, otherwise a human-readable rendering of the same sequence.
func runSearch(ctx context.Context, svc *service.Service, q service.Query, jsonOut bool, stdout, stderr io.Writer) int {
	events, err := svc.SearchJobsStream(ctx, q)
	if err != nil {
		var ve *service.SourceValidationError
		if errors.As(err, &ve) {
			fmt.Fprintf(stderr, "%v (known: %v)\n", ve, svc.Sources())
			return 2
		}
		fmt.Fprintf(stderr, "search: %v\n", err)
		return 1
	}

	if jsonOut {
		enc := json.NewEncoder(stdout)
		for e := range events {
			_ = enc.Encode(e)
		}
		return exitForCtx(ctx)
	}

	for e := range events {
		switch e.Type {
		case service.EventSourceStart:
			fmt.Fprintf(stdout, "== %s\n", e.Source)
		case service.EventJob:
			j := e.Job
			fmt.Fprintf(stdout, "%s | %s (%s)\n    %s\n", j.Title, j.Company, j.Location, j.URL)
		case service.EventError:
			fmt.Fprintf(stderr, "!! %s: %s\n", e.Source, e.Error)
		case service.EventComplete:
			s := e.Summary
			fmt.Fprintf(stdout, "\n%d postings", s.Total)
			if s.Duplicates > 0 {
				fmt.Fprintf(stdout, " (%d duplicates collapsed)", s.Duplicates)
			}
			fmt.Fprintf(stdout, " in %dms\n", s.ElapsedMS)
		}
	}
	return exitForCtx(ctx)
}

func exitForCtx(ctx context.Context) int {
	if ctx.Err() != nil {
		return 130
	}
	return 0
}
