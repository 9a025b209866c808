package normalize

import "strings"

// LocationTier is the coarse classification of a free-text location.
type LocationTier string

const (
	TierRemote  LocationTier = "remote"
	TierHybrid  LocationTier = "hybrid"
	TierCity    LocationTier = "city"
	TierRegion  LocationTier = "region"
	TierUnknown LocationTier = "unknown"
)

var regionWords = []string{
	"united states", "united kingdom", "europe", "north america", "emea",
	"apac", "latam", "canada", "australia", "worldwide", "anywhere",
}

// ClassifyLocation maps free text to a display location plus a tier,
// expanding common abbreviations via the alias table ("SF" -> "San
// Francisco"). Unknown input comes back unchanged with TierUnknown.
func ClassifyLocation(raw string) (string, LocationTier) {
	loc := Collapse(raw)
	if loc == "" {
		return "", TierUnknown
	}

	low := strings.ToLower(loc)
	switch {
	case strings.Contains(low, "remote") || strings.Contains(low, "work from home") || strings.Contains(low, "wfh") || strings.Contains(low, "distributed"):
		return "Remote", TierRemote
	case strings.Contains(low, "hybrid"):
		return "Hybrid", TierHybrid
	}

	// expand aliases per comma-separated part, dropping duplicates
	parts := strings.Split(loc, ",")
	seen := map[string]bool{}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = Collapse(p)
		if p == "" {
			continue
		}
		if alias, ok := lookupLocationAlias(p); ok {
			p = alias
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	display := strings.Join(out, ", ")

	lowDisplay := strings.ToLower(display)
	for _, r := range regionWords {
		if strings.Contains(lowDisplay, r) {
			return display, TierRegion
		}
	}
	return display, TierCity
}

// IsRemoteText reports whether any of the given text blobs mention a
// remote-friendly arrangement.
func IsRemoteText(blobs ...string) bool {
	joined := strings.ToLower(strings.Join(blobs, " "))
	for _, term := range []string{"remote", "anywhere", "distributed", "work from home", "wfh"} {
		if strings.Contains(joined, term) {
			return true
		}
	}
	return false
}

// InferWorkMode classifies location/title/description text into
// Remote/Hybrid/Onsite, defaulting to Unknown.
func InferWorkMode(location, title, desc string) string {
	blob := strings.ToLower(strings.Join([]string{location, title, desc}, " "))

	switch {
	case strings.Contains(blob, "hybrid"):
		return "Hybrid"
	case strings.Contains(blob, "remote"):
		return "Remote"
	case strings.Contains(blob, "on-site") || strings.Contains(blob, "onsite") || strings.Contains(blob, "on site"):
		return "Onsite"
	default:
		return "Unknown"
	}
}
