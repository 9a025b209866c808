package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/normalize"
)

// sectionBlock pairs a Section with the bullet items found inside it, so
// callers can classify bullets by heading without reparsing the HTML.
type sectionBlock struct {
	Section
	bullets []string
}

// collectSections walks container for headings matching headingSel and
// gathers the sibling content (div/p/ul/ol/li) following each heading up to
// the next heading. Sections keep their source order.
func collectSections(container *goquery.Selection, headingSel string) []sectionBlock {
	var out []sectionBlock

	container.Find(headingSel).Each(func(_ int, h *goquery.Selection) {
		heading := normalize.Collapse(h.Text())

		var htmlParts, textParts, bullets []string
		for sib := h.Next(); sib.Length() > 0; sib = sib.Next() {
			if sib.Is(headingSel) {
				break
			}
			if !sib.Is("div, p, ul, ol, li") {
				continue
			}
			if raw, err := goquery.OuterHtml(sib); err == nil {
				htmlParts = append(htmlParts, raw)
			}
			textParts = append(textParts, sib.Text())
			bullets = append(bullets, listItems(sib)...)
		}

		text := normalize.Text(strings.Join(textParts, "\n"))
		if heading == "" && text == "" {
			return
		}
		out = append(out, sectionBlock{
			Section: Section{
				Heading: heading,
				HTML:    strings.Join(htmlParts, "\n"),
				Text:    text,
			},
			bullets: bullets,
		})
	})
	return out
}

// listItems returns the cleaned text of every list item under sel; sel may
// itself be an li.
func listItems(sel *goquery.Selection) []string {
	var items []string
	add := func(s *goquery.Selection) {
		if t := normalize.Collapse(s.Text()); t != "" {
			items = append(items, t)
		}
	}
	if sel.Is("li") {
		add(sel)
		return items
	}
	sel.Find("li").Each(func(_ int, li *goquery.Selection) { add(li) })
	return items
}

// fillFromSections populates the shared ParsedJob fields every family parser
// derives the same way: ordered sections, concatenated description,
// bullet-group classification, and the tech stack.
func fillFromSections(job *ParsedJob, blocks []sectionBlock) {
	var texts, htmls []string
	for _, b := range blocks {
		job.Sections = append(job.Sections, b.Section)
		if b.Text != "" {
			texts = append(texts, b.Text)
		}
		if b.HTML != "" {
			htmls = append(htmls, b.HTML)
		}
		switch normalize.ClassifyHeading(b.Heading) {
		case normalize.KindRequirements:
			job.Requirements = append(job.Requirements, b.bullets...)
		case normalize.KindResponsibilities:
			job.Responsibilities = append(job.Responsibilities, b.bullets...)
		case normalize.KindBenefits:
			job.Benefits = append(job.Benefits, b.bullets...)
		}
	}
	job.DescriptionText = strings.Join(texts, "\n\n")
	job.DescriptionHTML = strings.Join(htmls, "\n")
	job.TechStack = normalize.TechStack(job.DescriptionText)
}

// familyScore is the shared content score for ATS family parsers. It is a
// deterministic monotone function of extracted content.
func familyScore(job *ParsedJob) int {
	score := 0
	if job.Title != "" {
		score += 25
	}
	if job.Company != "" {
		score += 15
	}
	if len(job.DescriptionText) > 120 {
		score += 40
	}
	if len(job.Sections) > 0 {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	return score
}

// companyFromTitleTag pulls a company name out of the document <title>,
// which most ATS pages render as "Role - Company" or similar.
func companyFromTitleTag(doc *goquery.Document, lastPart bool) string {
	title := normalize.Collapse(doc.Find("title").First().Text())
	if title == "" {
		return ""
	}
	var parts []string
	for _, p := range strings.Split(title, "-") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return ""
	}
	if lastPart {
		return parts[len(parts)-1]
	}
	return parts[1]
}

// nearTitleMeta extracts salary/location/remote hints from the metadata text
// around the title anchor.
func nearTitleMeta(job *ParsedJob, metaText string) {
	meta := normalize.Collapse(metaText)
	if len(meta) > 300 {
		meta = meta[:300]
	}
	if meta == "" {
		return
	}
	if info := normalize.ExtractSalary(meta); info.Matched() {
		job.SalaryInfo = info
		job.Salary = info.Raw
	}
	if job.Location == "" {
		if loc, tier := normalize.ClassifyLocation(meta); tier == normalize.TierRemote {
			job.Location = loc
		}
	}
	if normalize.IsRemoteText(meta) {
		job.RemoteOK = true
	}
}
