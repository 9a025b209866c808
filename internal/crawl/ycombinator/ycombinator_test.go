package ycombinator

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobboard-engine/internal/cache"
	"jobboard-engine/internal/crawl"
	"jobboard-engine/internal/fetch"
)

func TestGuessCompanyLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in                string
		company, location string
	}{
		{"Prosper AI (YC S23) Is Hiring Founding Account Executives (NYC)", "Prosper AI", "New York"},
		{"Acme -- Senior Backend Engineer (Remote, US)", "Acme", "Remote"},
		{"Founding Engineer at Foobar", "Foobar", ""},
		{"Plain listing title with no markers", "", ""},
	}
	for _, tc := range tests {
		company, location := guessCompanyLocation(tc.in)
		require.Equal(t, tc.company, company, tc.in)
		require.Equal(t, tc.location, location, tc.in)
	}
}

const listingPage = `<html><body><table>
<tr class="athing" id="101"><td><span class="titleline"><a href="https://acme.example.com/careers/backend">Acme (YC W24) is hiring Senior Backend Engineers (Remote)</a></span></td></tr>
<tr class="athing" id="102"><td><span class="titleline"><a href="item?id=102">Beta Labs is hiring ML Engineers (NYC)</a></span></td></tr>
</table></body></html>`

func TestCrawl_ParsesListingRows(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingPage)
	}))
	defer srv.Close()

	f := fetch.New(fetch.Options{PerHost: 1000, Burst: 100}, zap.NewNop())
	defer f.Close()
	deps := crawl.Deps{Fetcher: f, Cache: cache.New(time.Minute), Log: zap.NewNop()}

	c := New(deps)
	jobs, err := crawl.Run(context.Background(), deps, c.Name(), srv.URL,
		crawl.Params{MaxPages: 1, PerSourceLimit: 100}, parsePage, crawl.NoNext)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	first := jobs[0]
	require.Equal(t, "Y Combinator", first.Source)
	require.Equal(t, "https://acme.example.com/careers/backend", first.URL)
	require.True(t, first.RemoteOK)
	require.Contains(t, first.Tags, "YC W24")
	require.Contains(t, first.Tags, "Remote")

	second := jobs[1]
	require.Equal(t, "Beta Labs", second.Company)
	require.Equal(t, "New York", second.Location)
}
