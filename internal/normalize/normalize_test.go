package normalize

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText_RepairsMojibakeAndKeepsLines(t *testing.T) {
	t.Parallel()

	in := "Responsibilities:\n\n\nâ€¢ Build   things\nâ€¢ Ship\t stuff\n\n"
	got := Text(in)
	require.Equal(t, "Responsibilities:\n\n• Build things\n• Ship stuff", got)
}

func TestCollapse(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Senior Engineer", Collapse("  Senior  Engineer \n"))
}

func TestParseSalary_Range(t *testing.T) {
	t.Parallel()

	info := ParseSalary("$120,000 - $160,000 per year")
	require.True(t, info.Matched())
	require.Equal(t, 120000.0, *info.Min)
	require.Equal(t, 160000.0, *info.Max)
	require.Equal(t, "USD", info.Currency)
	require.Equal(t, "year", info.Periodicity)
}

func TestParseSalary_KSuffixAndHourly(t *testing.T) {
	t.Parallel()

	info := ParseSalary("£40k–£55k")
	require.True(t, info.Matched())
	require.Equal(t, 40000.0, *info.Min)
	require.Equal(t, 55000.0, *info.Max)
	require.Equal(t, "GBP", info.Currency)

	info = ParseSalary("$45 per hour")
	require.True(t, info.Matched())
	require.Equal(t, 45.0, *info.Min)
	require.Equal(t, "hour", info.Periodicity)
}

func TestParseSalary_NoMatchPreservesRaw(t *testing.T) {
	t.Parallel()

	info := ParseSalary("competitive compensation")
	require.False(t, info.Matched())
	require.Nil(t, info.Min)
	require.Nil(t, info.Max)
	require.Equal(t, "competitive compensation", info.Raw)
}

func TestExtractSalary_FindsSubstring(t *testing.T) {
	t.Parallel()

	info := ExtractSalary("Engineering • Full-time • $150k - $190k per year • Remote")
	require.True(t, info.Matched())
	require.Equal(t, 150000.0, *info.Min)
	require.Equal(t, 190000.0, *info.Max)
	require.Equal(t, "year", info.Periodicity)
	require.NotContains(t, info.Raw, "Engineering")
}

func TestExtractSalary_IgnoresBareNumberRanges(t *testing.T) {
	t.Parallel()

	require.False(t, ExtractSalary("Senior Backend Engineer · Remote · 3-5 years of experience required").Matched())
	require.False(t, ExtractSalary("Ships in 2-4 weeks").Matched())

	// a k-suffix or currency on either endpoint still qualifies
	info := ExtractSalary("Compensation: 120k-150k plus equity")
	require.True(t, info.Matched())
	require.Equal(t, 120000.0, *info.Min)

	info = ExtractSalary("We pay $90,000 to 110,000 depending on level")
	require.True(t, info.Matched())
	require.Equal(t, 90000.0, *info.Min)
	require.Equal(t, 110000.0, *info.Max)
}

func TestClassifyLocation(t *testing.T) {
	t.Parallel()

	loc, tier := ClassifyLocation("Remote (US timezones)")
	require.Equal(t, "Remote", loc)
	require.Equal(t, TierRemote, tier)

	loc, tier = ClassifyLocation("SF")
	require.Equal(t, "San Francisco", loc)
	require.Equal(t, TierCity, tier)

	loc, tier = ClassifyLocation("NYC, NYC, Boston")
	require.Equal(t, "New York, Boston", loc)
	require.Equal(t, TierCity, tier)

	loc, tier = ClassifyLocation("UK")
	require.Equal(t, "United Kingdom", loc)
	require.Equal(t, TierRegion, tier)

	_, tier = ClassifyLocation("Hybrid - 2 days in office")
	require.Equal(t, TierHybrid, tier)
}

func TestTechStack_FirstSeenOrder(t *testing.T) {
	t.Parallel()

	got := TechStack("We use Kubernetes and Python. More Python, some AWS, and kubernetes again.")
	require.Equal(t, []string{"Kubernetes", "Python", "AWS"}, got)
}

func TestTechStack_WordBoundaries(t *testing.T) {
	t.Parallel()

	// "Javan" must not match java; "C++" must match.
	got := TechStack("Javan developers welcome; we write C++ services.")
	require.Equal(t, []string{"C++"}, got)
}

func TestClassifyHeading(t *testing.T) {
	t.Parallel()

	require.Equal(t, KindResponsibilities, ClassifyHeading("What you'll do"))
	require.Equal(t, KindRequirements, ClassifyHeading("Minimum Qualifications"))
	require.Equal(t, KindBenefits, ClassifyHeading("Perks & Benefits"))
	require.Equal(t, "", ClassifyHeading("About Acme"))
}

func TestInferWorkMode(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Remote", InferWorkMode("Remote - US", "", ""))
	require.Equal(t, "Hybrid", InferWorkMode("", "Hybrid role", ""))
	require.Equal(t, "Onsite", InferWorkMode("", "", "this role is on-site"))
	require.Equal(t, "Unknown", InferWorkMode("Austin, TX", "", ""))
}
