package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"jobboard-engine/internal/normalize"
)

// genericParser is the fallback for pages no family parser claims. It picks
// the densest text-bearing container as the description root and splits it
// into sections at subheadings.
type genericParser struct{}

func (genericParser) Name() string { return TagGeneric }

func (p genericParser) Parse(url string, doc *goquery.Document) *ParsedJob {
	job := &ParsedJob{Parser: p.Name(), URL: url}

	job.Title = normalize.Collapse(doc.Find("h1, h2").First().Text())
	if job.Title == "" {
		job.Title = normalize.Collapse(doc.Find("title").First().Text())
	}

	container := largestTextContainer(doc)

	blocks := collectSections(container, "h2, h3")
	if len(blocks) == 0 {
		// no subheadings: treat the paragraphs and lists as one section
		var htmlParts, textParts, bullets []string
		container.Find("p, ul, ol").Each(func(_ int, s *goquery.Selection) {
			if raw, err := goquery.OuterHtml(s); err == nil {
				htmlParts = append(htmlParts, raw)
			}
			textParts = append(textParts, s.Text())
			bullets = append(bullets, listItems(s)...)
		})
		if text := normalize.Text(strings.Join(textParts, "\n")); text != "" {
			heading := job.Title
			if heading == "" {
				heading = "Description"
			}
			blocks = []sectionBlock{{
				Section: Section{Heading: heading, HTML: strings.Join(htmlParts, "\n"), Text: text},
				bullets: bullets,
			}}
		}
	}
	fillFromSections(job, blocks)

	job.RemoteOK = normalize.IsRemoteText(job.Title, job.DescriptionText)

	score := 0
	if job.Title != "" {
		score += 15
	}
	if len(job.DescriptionText) > 200 {
		score += 60
	}
	if len(job.Sections) > 0 {
		score += 25
	}
	if score > 100 {
		score = 100
	}
	job.ContentScore = score
	return job
}

// largestTextContainer selects the description root: among article/main/
// section/div elements (skipping chrome by class hints), the one with the
// best text density, that is text length over descendant element count.
func largestTextContainer(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	var bestScore float64

	doc.Find("article, main, section, div").Each(func(_ int, el *goquery.Selection) {
		cls, _ := el.Attr("class")
		low := strings.ToLower(cls)
		for _, hint := range []string{"nav", "footer", "header", "menu", "cookie", "sidebar"} {
			if strings.Contains(low, hint) {
				return
			}
		}
		text := normalize.Collapse(el.Text())
		if len(text) < 120 {
			return
		}
		score := float64(len(text)) / float64(1+el.Find("*").Length())
		if score > bestScore {
			best = el
			bestScore = score
		}
	})

	if best != nil {
		return best
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}
