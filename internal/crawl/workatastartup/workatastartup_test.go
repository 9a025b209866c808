package workatastartup

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"jobboard-engine/internal/domain"
)

const gridFixture = `<html><body>
<div class="company-jobs">
  <div class="jobs-list">
    <div>
      <div class="w-full bg-beige-lighter">
        <div class="company-details">
          <a target="company" href="/companies/prosper-ai">Prosper AI</a> (YC S23) •
          <span class="text-gray-600">Voice agents that automate back-office finance work for mid-market teams.</span>
        </div>
        <a target="job" data-jobid="j-1001" href="/jobs/1001">Senior Backend Engineer</a>
        <div class="job-details">
          <span>Full-time</span><span>Backend</span><span>San Francisco</span>
        </div>
      </div>
      <div class="w-full bg-beige-lighter">
        <div class="company-details">
          <a target="company" href="/companies/initech">Initech</a> •
          <span class="text-gray-600">Developer tooling for distributed teams, remote-first since day one.</span>
        </div>
        <a target="job" data-jobid="j-1002" href="https://www.workatastartup.com/jobs/1002">Staff Frontend Engineer</a>
        <div class="job-details">
          <span>Full-time</span><span>Frontend</span><span>Remote</span>
        </div>
      </div>
      <div class="w-full bg-beige-lighter">
        <div class="company-details">
          <a target="company" href="/companies/empty">Empty Card</a>
        </div>
        <!-- no job link, card is skipped -->
      </div>
    </div>
  </div>
</div>
</body></html>`

func parseFixture(t *testing.T) []domain.JobPosting {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(gridFixture))
	require.NoError(t, err)
	return parsePage(doc, startURL, 0)
}

func TestParsePage_JobCards(t *testing.T) {
	t.Parallel()

	jobs := parseFixture(t)
	require.Len(t, jobs, 2)

	first := jobs[0]
	require.Equal(t, "j-1001", first.ID)
	require.Equal(t, "Work at a Startup", first.Source)
	require.Equal(t, "Senior Backend Engineer", first.Title)
	require.Equal(t, "Prosper AI", first.Company)
	require.Equal(t, "https://www.workatastartup.com/jobs/1001", first.URL)
	require.Equal(t, "San Francisco", first.Location)
	require.Equal(t, "Full-time", first.JobType)
	require.Contains(t, first.Tags, "YC S23")
	require.Contains(t, first.Tags, "Backend")
	require.Contains(t, first.Description, "back-office finance")
	require.NotEmpty(t, first.RawHTML)

	second := jobs[1]
	require.Equal(t, "Initech", second.Company)
	require.Equal(t, "Remote", second.Location)
	require.True(t, second.RemoteOK)
	require.Contains(t, second.Tags, "Remote")
	require.NotContains(t, second.Tags, "YC S23")
}

func TestParsePage_BudgetStopsEarly(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(gridFixture))
	require.NoError(t, err)
	jobs := parsePage(doc, startURL, 1)
	require.Len(t, jobs, 1)
	require.Equal(t, "Senior Backend Engineer", jobs[0].Title)
}

func TestParseCompanyAndBatch(t *testing.T) {
	t.Parallel()

	company, batch := parseCompanyAndBatch("Prosper AI (YC S23) • voice agents for finance")
	require.Equal(t, "Prosper AI", company)
	require.Equal(t, "YC S23", batch)

	company, batch = parseCompanyAndBatch("Initech • developer tooling")
	require.Equal(t, "Initech", company)
	require.Empty(t, batch)
}

func TestParseJobDetails_Classification(t *testing.T) {
	t.Parallel()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div class="job-details"><span>Contract</span><span>DevOps</span><span>New York, NY</span></div>`))
	require.NoError(t, err)

	location, jobType, category := parseJobDetails(doc.Find(".job-details").First())
	require.Equal(t, "Contract", jobType)
	require.Equal(t, "DevOps", category)
	require.Contains(t, location, "New York")
}
