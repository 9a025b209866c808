package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"jobboard-engine/internal/domain"
)

func TestParseJobURL_MissingURL(t *testing.T) {
	t.Parallel()

	s := newTestService(t)
	_, err := s.ParseJobURL(context.Background(), "  ")
	require.ErrorIs(t, err, ErrMissingURL)
}

func TestOfflinePosting_URLDerivedFields(t *testing.T) {
	t.Parallel()

	j := offlinePosting("https://company.com/careers/senior-engineer")
	require.Equal(t, "company", j.Company)
	require.Equal(t, "Senior Engineer", j.Title)
	require.Equal(t, domain.UnknownLocation, j.Location)
	require.Equal(t, "https://company.com/careers/senior-engineer", j.URL)
}

func TestParseJobURL_DegradesToURLWhenUnreachable(t *testing.T) {
	t.Parallel()

	// a closed server guarantees a fetch failure without leaving localhost
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s := newTestService(t)
	j, err := s.ParseJobURL(context.Background(), srv.URL+"/careers/staff-platform-engineer")
	require.NoError(t, err)
	require.Equal(t, "Staff Platform Engineer", j.Title)
	require.Equal(t, domain.UnknownLocation, j.Location)
}

func TestParseJobURL_ParsesFetchedPage(t *testing.T) {
	t.Parallel()

	page := `<html><head><title>Senior Backend Engineer - Initech</title></head><body>
	<h1>Senior Backend Engineer</h1>
	<main>
	<p>Initech builds billing infrastructure for mid-market SaaS companies. Our platform
	moves money for thousands of customers and the backend team owns everything from the
	public API to the ledger. We work in Go and Postgres, deploy continuously, and keep
	the oncall load sane by investing in reliability work every sprint.</p>
	<h2>Requirements</h2>
	<ul><li>5+ years building backend services in Go or Java</li>
	<li>Production experience with PostgreSQL and Kafka</li></ul>
	<h2>Benefits</h2>
	<ul><li>Full medical, dental, vision</li><li>401k matching</li></ul>
	</main></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	s := newTestService(t)
	j, err := s.ParseJobURL(context.Background(), srv.URL+"/jobs/senior-backend-engineer")
	require.NoError(t, err)
	require.Equal(t, "Senior Backend Engineer", j.Title)
	require.NotEmpty(t, j.Description)
	require.NotEmpty(t, j.Requirements)
}
