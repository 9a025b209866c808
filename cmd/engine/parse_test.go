package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobboard-engine/internal/config"
	"jobboard-engine/internal/service"
)

func newParseService(t *testing.T) *service.Service {
	t.Helper()
	cfg := config.Config{
		Fetch: config.FetchConfig{TimeoutSeconds: 2, PerHostRPS: 1000, PerHostBurst: 100},
		Cache: config.CacheConfig{TTLSeconds: 60},
		Crawl: config.CrawlConfig{MaxPages: 1, PerSourceLimit: 10},
	}
	svc := service.New(cfg, zap.NewNop())
	t.Cleanup(svc.Close)
	return svc
}

func TestRunParse_MissingURL(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	code := runParse(context.Background(), newParseService(t), "", &out)
	require.Equal(t, 1, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "parseError", got["type"])
	require.Equal(t, "Missing url", got["error"])
}

func TestRunParse_OfflineURLDerivedPosting(t *testing.T) {
	t.Parallel()

	// .invalid never resolves, so the fetch fails and the posting is
	// reconstructed from the URL alone
	var out bytes.Buffer
	code := runParse(context.Background(), newParseService(t),
		"https://company.invalid/careers/senior-engineer", &out)
	require.Equal(t, 0, code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Equal(t, "parsed", got["type"])
	require.Equal(t, "company", got["company"])
	require.Equal(t, "Senior Engineer", got["title"])
	require.Equal(t, "Unknown", got["location"])

	// automation callers depend on this exact key set
	want := []string{"type", "url", "title", "company", "location", "description", "source", "salary", "team"}
	require.Len(t, got, len(want))
	for _, k := range want {
		require.Contains(t, got, k)
	}
}
