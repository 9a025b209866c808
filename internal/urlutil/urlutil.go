// Package urlutil normalizes posting URLs for deduplication.
package urlutil

import (
	"net/url"
	"sort"
	"strings"
)

// Canonicalize strips tracking query parameters and the fragment, lowers
// scheme/host, and renders the remaining query deterministically. Two
// postings whose canonical URLs are equal are the same posting.
func Canonicalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		if isTrackingParam(k) {
			q.Del(k)
		}
	}

	// deterministic query
	for k := range q {
		vals := q[k]
		sort.Strings(vals)
		q[k] = vals
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func isTrackingParam(k string) bool {
	lk := strings.ToLower(k)
	if strings.HasPrefix(lk, "utm_") {
		return true
	}
	switch lk {
	case "gclid", "fbclid", "msclkid", "mc_cid", "mc_eid", "mkt_tok", "ref", "source":
		return true
	}
	return false
}

// Host returns the lowercase hostname of a URL, or "" when unparseable.
func Host(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// CompanyFromHost derives a company name from a hostname by taking the
// second-level label verbatim: "www.company.com" -> "company". Used when a
// page cannot be fetched and the posting must be reconstructed from its URL
// alone.
func CompanyFromHost(host string) string {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return host
}

// TitleFromPath derives a human title from the last URL path segment:
// "/careers/senior-engineer" -> "Senior Engineer".
func TitleFromPath(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	segs := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := ""
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i] != "" {
			last = segs[i]
			break
		}
	}
	if last == "" {
		return ""
	}
	words := strings.FieldsFunc(last, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
