package domain

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	j := JobPosting{Title: "Engineer", URL: "https://x.example/1"}
	j.ApplyDefaults()
	require.Equal(t, UnknownCompany, j.Company)
	require.Equal(t, UnknownLocation, j.Location)

	j = JobPosting{Company: "Acme", Location: "Berlin"}
	j.ApplyDefaults()
	require.Equal(t, "Acme", j.Company)
	require.Equal(t, "Berlin", j.Location)
}

func TestTruncateDescription_ShortPassesThrough(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", TruncateDescription("short"))
}

func TestTruncateDescription_CutsAtRuneBoundary(t *testing.T) {
	t.Parallel()

	// the leading "a" offsets every 3-byte rune so the limit lands mid-rune
	s := "a" + strings.Repeat("€", 250)
	out := TruncateDescription(s)

	require.True(t, strings.HasSuffix(out, "..."))
	require.True(t, utf8.ValidString(out))
	require.LessOrEqual(t, len(out), SummaryDescriptionLimit+3)
}
