package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

// SalaryInfo is the structured form of a raw salary string. Min/Max are
// nil when the raw text did not pattern-match; Raw is always preserved.
type SalaryInfo struct {
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	Periodicity string   `json:"periodicity,omitempty"`
	Raw         string   `json:"raw,omitempty"`
}

// Matched reports whether the raw string yielded structured figures.
func (s SalaryInfo) Matched() bool { return s.Min != nil }

var (
	salaryRangeRe  = regexp.MustCompile(`(?i)([$€£]|usd|eur|gbp|cad)?\s*([0-9][0-9,.]*)\s*(k)?\s*(?:-|–|—|~|to)\s*([$€£]|usd|eur|gbp|cad)?\s*([0-9][0-9,.]*)\s*(k)?`)
	salarySingleRe = regexp.MustCompile(`(?i)([$€£]|usd|eur|gbp|cad)\s*([0-9][0-9,.]*)\s*(k)?`)
	periodicityRe  = regexp.MustCompile(`(?i)\b(hour|hr|day|week|month|mo|year|yr|annum|hourly|daily|weekly|monthly|annually|yearly)\b`)
)

// ParseSalary pattern-matches a raw salary string into structured fields.
// It never fails: unmatched input returns an all-nil SalaryInfo with the
// raw string preserved.
func ParseSalary(raw string) SalaryInfo {
	info := SalaryInfo{Raw: strings.TrimSpace(raw)}
	if info.Raw == "" {
		return info
	}

	if m := salaryRangeRe.FindStringSubmatch(info.Raw); m != nil {
		mn := parseAmount(m[2], m[3] != "")
		mx := parseAmount(m[5], m[6] != "")
		if mn > 0 && mx >= mn {
			info.Min = &mn
			info.Max = &mx
			info.Currency = currencyOf(m[1], m[4])
		}
	}
	if info.Min == nil {
		if m := salarySingleRe.FindStringSubmatch(info.Raw); m != nil {
			v := parseAmount(m[2], m[3] != "")
			if v > 0 {
				info.Min = &v
				info.Max = &v
				info.Currency = currencyOf(m[1], "")
			}
		}
	}
	if info.Min == nil {
		return info
	}

	info.Periodicity = periodicityOf(info.Raw)
	return info
}

// ExtractSalary locates a salary expression inside a larger text blob and
// parses it. A bare number range is not a salary: a range only counts when
// at least one endpoint carries a currency symbol/code or a k-suffix, so
// "3-5 years of experience" stays unmatched. Raw holds just the matched
// substring, not the whole blob.
func ExtractSalary(text string) SalaryInfo {
	var m string
	for _, sub := range salaryRangeRe.FindAllStringSubmatch(text, -1) {
		if sub[1] != "" || sub[3] != "" || sub[4] != "" || sub[6] != "" {
			m = sub[0]
			break
		}
	}
	if m == "" {
		m = salarySingleRe.FindString(text)
	}
	if m == "" {
		return SalaryInfo{}
	}
	info := ParseSalary(m)
	if info.Matched() {
		// periodicity tokens usually sit outside the amount match
		info.Periodicity = periodicityOf(text)
	}
	return info
}

func parseAmount(num string, kSuffix bool) float64 {
	num = strings.ReplaceAll(num, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSuffix(num, "."), 64)
	if err != nil {
		return 0
	}
	if kSuffix {
		v *= 1000
	}
	return v
}

func currencyOf(tokens ...string) string {
	for _, tok := range tokens {
		switch strings.ToUpper(strings.TrimSpace(tok)) {
		case "$", "USD":
			return "USD"
		case "€", "EUR":
			return "EUR"
		case "£", "GBP":
			return "GBP"
		case "CAD":
			return "CAD"
		}
	}
	return "USD"
}

func periodicityOf(raw string) string {
	m := periodicityRe.FindStringSubmatch(raw)
	if m == nil {
		return "year"
	}
	switch strings.ToLower(m[1]) {
	case "hour", "hr", "hourly":
		return "hour"
	case "day", "daily":
		return "day"
	case "week", "weekly":
		return "week"
	case "month", "mo", "monthly":
		return "month"
	default:
		return "year"
	}
}
