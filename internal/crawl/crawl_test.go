package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jobboard-engine/internal/cache"
	"jobboard-engine/internal/domain"
	"jobboard-engine/internal/fetch"
)

func testDeps(t *testing.T, ttl time.Duration) Deps {
	t.Helper()
	f := fetch.New(fetch.Options{PerHost: 1000, Burst: 100}, zap.NewNop())
	t.Cleanup(f.Close)
	return Deps{Fetcher: f, Cache: cache.New(ttl), Log: zap.NewNop()}
}

// pageHTML renders n jobs plus a link to the next page (when next != "").
func pageHTML(page, n int, next string) string {
	body := ""
	for i := 0; i < n; i++ {
		body += fmt.Sprintf(`<div class="job"><a href="/job/%d-%d">Job %d on page %d</a></div>`, page, i, i, page)
	}
	if next != "" {
		body += fmt.Sprintf(`<a class="morelink" href="%s">More</a>`, next)
	}
	return "<html><body>" + body + "</body></html>"
}

func jobExtractor(source string) PageFunc {
	return func(doc *goquery.Document, pageURL string, budget int) []domain.JobPosting {
		var jobs []domain.JobPosting
		doc.Find("div.job a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			if budget > 0 && len(jobs) >= budget {
				return false
			}
			href, _ := a.Attr("href")
			jobs = append(jobs, domain.JobPosting{
				Source:  source,
				URL:     ResolveURL(pageURL, href),
				Title:   a.Text(),
				Company: "TestCo",
			})
			return true
		})
		return jobs
	}
}

func moreNext(doc *goquery.Document, pageURL string) string {
	return MoreLink(doc, pageURL)
}

func TestRun_MaxPagesBound(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		switch r.URL.Path {
		case "/p1":
			fmt.Fprint(w, pageHTML(1, 2, "/p2"))
		case "/p2":
			fmt.Fprint(w, pageHTML(2, 2, "/p3"))
		default:
			fmt.Fprint(w, pageHTML(3, 2, ""))
		}
	}))
	defer srv.Close()

	deps := testDeps(t, time.Minute)
	jobs, err := Run(context.Background(), deps, "testsrc", srv.URL+"/p1",
		Params{MaxPages: 2, PerSourceLimit: 100}, jobExtractor("testsrc"), moreNext)
	require.NoError(t, err)

	// two pages of two jobs, third page never fetched
	require.Len(t, jobs, 4)
	require.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestRun_PartialResultsOnMidRunFetchFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/p1" {
			fmt.Fprint(w, pageHTML(1, 3, "/p2"))
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	deps := testDeps(t, time.Minute)
	jobs, err := Run(context.Background(), deps, "testsrc", srv.URL+"/p1",
		Params{MaxPages: 5, PerSourceLimit: 100}, jobExtractor("testsrc"), moreNext)
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	// partial results are still cached
	cached, ok := deps.Cache.Get("testsrc")
	require.True(t, ok)
	require.Len(t, cached, 3)
}

func TestRun_FirstFetchFailureIsError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	deps := testDeps(t, time.Minute)
	_, err := Run(context.Background(), deps, "testsrc", srv.URL+"/p1",
		Params{MaxPages: 2, PerSourceLimit: 100}, jobExtractor("testsrc"), moreNext)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "testsrc", fe.Source)
}

func TestRun_CacheSkipsNetworkWithinTTL(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, pageHTML(1, 2, ""))
	}))
	defer srv.Close()

	deps := testDeps(t, time.Minute)
	p := Params{MaxPages: 1, PerSourceLimit: 100}

	first, err := Run(context.Background(), deps, "testsrc", srv.URL, p, jobExtractor("testsrc"), moreNext)
	require.NoError(t, err)
	second, err := Run(context.Background(), deps, "testsrc", srv.URL, p, jobExtractor("testsrc"), moreNext)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRun_CacheExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, pageHTML(1, 1, ""))
	}))
	defer srv.Close()

	deps := testDeps(t, 50*time.Millisecond)
	p := Params{MaxPages: 1, PerSourceLimit: 100}

	_, err := Run(context.Background(), deps, "testsrc", srv.URL, p, jobExtractor("testsrc"), moreNext)
	require.NoError(t, err)

	time.Sleep(80 * time.Millisecond)
	_, err = Run(context.Background(), deps, "testsrc", srv.URL, p, jobExtractor("testsrc"), moreNext)
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestRun_PerSourceLimitStopsPagination(t *testing.T) {
	t.Parallel()

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, pageHTML(1, 2, "/more"))
	}))
	defer srv.Close()

	deps := testDeps(t, time.Minute)
	jobs, err := Run(context.Background(), deps, "testsrc", srv.URL,
		Params{MaxPages: 10, PerSourceLimit: 3}, jobExtractor("testsrc"), moreNext)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	require.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestRun_CancelledRunLeavesCacheUntouched(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageHTML(1, 1, "/p2"))
	}))
	defer srv.Close()

	deps := testDeps(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, deps, "testsrc", srv.URL, Params{MaxPages: 2, PerSourceLimit: 10},
		jobExtractor("testsrc"), moreNext)
	require.Error(t, err)

	_, ok := deps.Cache.Get("testsrc")
	require.False(t, ok)
}

func TestFilterKeywords(t *testing.T) {
	t.Parallel()

	jobs := []domain.JobPosting{
		{Title: "Senior Go Engineer", Company: "Acme", Description: "backend work"},
		{Title: "Designer", Company: "Initech", Description: "figma all day"},
		{Title: "SRE", Company: "GoCardless", Description: "on-call"},
	}

	require.Len(t, FilterKeywords(jobs, nil), 3)
	require.Len(t, FilterKeywords(jobs, []string{""}), 3)

	got := FilterKeywords(jobs, []string{"go"})
	require.Len(t, got, 2) // matches title and company, case-insensitive

	got = FilterKeywords(jobs, []string{"figma"})
	require.Len(t, got, 1)
	require.Equal(t, "Designer", got[0].Title)
}

func TestYCBatch(t *testing.T) {
	t.Parallel()

	require.Equal(t, "YC S23", YCBatch("Acme (YC S23) is hiring"))
	require.Equal(t, "YC W24", YCBatch("Beta (W24) hiring engineers"))
	require.Equal(t, "", YCBatch("Gamma is hiring engineers"))
}
