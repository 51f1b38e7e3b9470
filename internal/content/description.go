package content

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// MinDescriptionChars is the minimum length for a candidate block to be
// accepted as a job description.
const MinDescriptionChars = 200

// Selectors whose class or id names carry semantic meaning on job boards.
// Structural class names on the target site change frequently, which is why
// the cascade falls back to a density score instead of trusting these alone.
var descriptionSelectors = []string{
	"[class*='description']",
	"[id*='description']",
	"[class*='job-detail']",
	"[id*='job-detail']",
	"[class*='job-content']",
	"[id*='job-content']",
}

// JobDescription extracts the main description text from a detail page using
// a three-tier cascade:
//
//  1. semantic selectors (class/id containing "description", "job-detail",
//     "job-content"), first match over MinDescriptionChars wins;
//  2. density ranking of block elements outside nav/header/footer/aside,
//     densest candidate over MinDescriptionChars wins;
//  3. main content region, then whole-page text.
func JobDescription(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript, svg, iframe, template").Remove()

	// Tier 1: semantic class/id selectors.
	for _, selector := range descriptionSelectors {
		var found string
		doc.Find(selector).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text := renderText(s)
			if len(text) > MinDescriptionChars {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}

	// Tier 2: density ranking.
	if text := densestBlock(doc); len(text) > MinDescriptionChars {
		return text
	}

	// Tier 3: main content region, then whole page.
	if main := doc.Find("main, [role='main'], article").First(); main.Length() > 0 {
		if text := renderText(main); text != "" {
			return text
		}
	}
	return collapseWhitespace(doc.Find("body").Text())
}

// densestBlock ranks block-level elements by text-length-to-child-count
// density and returns the densest candidate's text.
func densestBlock(doc *goquery.Document) string {
	var best *goquery.Selection
	var bestScore float64

	doc.Find("div, section, article").Each(func(i int, s *goquery.Selection) {
		// Skip chrome regions: navigation, headers, footers, sidebars.
		if s.Closest("nav, header, footer, aside").Length() > 0 {
			return
		}
		text := collapseWhitespace(s.Text())
		if len(text) <= MinDescriptionChars {
			return
		}
		score := float64(len(text)) / float64(1+s.Children().Length())
		if score > bestScore {
			bestScore = score
			best = s
		}
	})

	if best == nil {
		return ""
	}
	return renderText(best)
}

// renderText converts a selection to readable text, preferring a markdown
// rendering (which preserves list and paragraph structure) and falling back
// to collapsed plain text.
func renderText(s *goquery.Selection) string {
	htmlStr, err := goquery.OuterHtml(s)
	if err == nil {
		converter := md.NewConverter("", true, nil)
		if text, err := converter.ConvertString(htmlStr); err == nil {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed
			}
		}
	}
	return collapseWhitespace(s.Text())
}
