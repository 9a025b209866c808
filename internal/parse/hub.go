package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/normalize"
)

const hubPlaceholder = "This page appears to list multiple jobs or requires a form/application " +
	"before viewing a detailed job description. Please select a specific job " +
	"posting link to retrieve a full description."

// minHubCards is the sibling-repetition threshold above which a page is
// treated as a listing hub rather than a single posting.
const minHubCards = 8

// hubFormParser recognizes listing hubs (grids of repeated job cards) and
// form-gated pages, and short-circuits with a company profile plus the
// discovered job links instead of a mis-extracted posting.
type hubFormParser struct{}

func (hubFormParser) Name() string { return TagHub }

var hubCardSelectors = []string{
	".job-card", ".jobs-list", "[data-job]", "[data-job-card]",
	".careers-list", ".openings", ".positions",
}

func (hubFormParser) Detect(url string, doc *goquery.Document) bool {
	for _, sel := range hubCardSelectors {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	if repeatedCardParent(doc) != nil {
		return true
	}
	// form-gated: a form with little surrounding copy
	if doc.Find("form").Length() > 0 {
		body := normalize.Collapse(doc.Find("body").Text())
		if len(body) < 600 {
			return true
		}
	}
	return false
}

func (p hubFormParser) Parse(url string, doc *goquery.Document) *ParsedJob {
	job := &ParsedJob{Parser: p.Name(), URL: url}

	company := ""
	if t := normalize.Collapse(doc.Find("title").First().Text()); t != "" {
		if i := strings.Index(t, "-"); i > 0 {
			company = strings.TrimSpace(t[:i])
		} else {
			company = t
		}
	}
	job.CompanyProfile = &CompanyProfile{Name: company}

	job.Discovered = discoverSummaries(doc, url)
	job.DescriptionText = hubPlaceholder
	job.Sections = []Section{{Heading: "Overview", Text: hubPlaceholder}}
	job.ContentScore = 20
	job.Warnings = append(job.Warnings, WarnHubOrForm)
	return job
}

// discoverSummaries collects link+title pairs from the repeated card
// structures so a caller can follow up on specific postings.
func discoverSummaries(doc *goquery.Document, pageURL string) []JobSummary {
	seen := map[string]bool{}
	var out []JobSummary

	add := func(a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		href = resolveHref(pageURL, strings.TrimSpace(href))
		title := normalize.Collapse(a.Text())
		if href == "" || title == "" || seen[href] {
			return
		}
		seen[href] = true
		out = append(out, JobSummary{Title: title, URL: href})
	}

	for _, sel := range hubCardSelectors {
		doc.Find(sel).Each(func(_ int, card *goquery.Selection) {
			if card.Is("a") {
				add(card)
				return
			}
			card.Find("a[href]").Each(func(_ int, a *goquery.Selection) { add(a) })
		})
	}
	if parent := repeatedCardParent(doc); parent != nil {
		parent.Children().Each(func(_ int, card *goquery.Selection) {
			card.Find("a[href]").Each(func(_ int, a *goquery.Selection) { add(a) })
		})
	}
	return out
}

// repeatedCardParent finds an element whose children are many same-shaped
// siblings each carrying a link, the signature of a listing grid.
func repeatedCardParent(doc *goquery.Document) *goquery.Selection {
	var found *goquery.Selection

	doc.Find("div, ul, section, tbody").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		shapes := map[string]int{}
		el.Children().Each(func(_ int, ch *goquery.Selection) {
			if ch.Find("a[href]").Length() == 0 {
				return
			}
			cls, _ := ch.Attr("class")
			shapes[goquery.NodeName(ch)+"."+cls]++
		})
		for _, n := range shapes {
			if n >= minHubCards {
				found = el
				return false
			}
		}
		return true
	})
	return found
}
