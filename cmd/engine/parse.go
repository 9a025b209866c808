package main

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"jobboard-engine/internal/service"
)

// parseResult is the exact success shape of parse mode. Automation callers
// depend on this key set, so every field stays present even when empty.
type parseResult struct {
	Type        string `json:"type"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Salary      string `json:"salary"`
	Team        string `json:"team"`
}

type parseFailure struct {
	Type  string `json:"type"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error"`
}

// runParse prints exactly one JSON object on stdout and returns the process
// exit code: 0 on success, 1 on any failure including a missing URL.
func runParse(ctx context.Context, svc *service.Service, rawURL string, out io.Writer) int {
	if strings.TrimSpace(rawURL) == "" {
		writeOneJSON(out, parseFailure{Type: "parseError", Error: "Missing url"})
		return 1
	}

	j, err := svc.ParseJobURL(ctx, rawURL)
	if err != nil {
		writeOneJSON(out, parseFailure{Type: "parseError", URL: rawURL, Error: err.Error()})
		return 1
	}

	writeOneJSON(out, parseResult{
		Type:        "parsed",
		URL:         j.URL,
		Title:       j.Title,
		Company:     j.Company,
		Location:    j.Location,
		Description: j.Description,
		Source:      j.Source,
		Salary:      j.Salary,
		Team:        j.Team,
	})
	return 0
}

func writeOneJSON(out io.Writer, v any) {
	_ = json.NewEncoder(out).Encode(v)
}
