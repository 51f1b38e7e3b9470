package content

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ExtractLinks collects absolute hrefs from the page using an ordered list
// of candidate selectors, trying each until one yields at least one link.
// Relative URLs are resolved against baseURL, tracking query parameters are
// stripped so the same posting dedupes to one canonical URL, and duplicates
// are removed while preserving document order.
func ExtractLinks(htmlStr, baseURL string, selectors []string) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	for _, selector := range selectors {
		links := collectLinks(doc, selector, base)
		if len(links) > 0 {
			return links
		}
	}
	return nil
}

func collectLinks(doc *goquery.Document, selector string, base *url.URL) []string {
	var links []string
	seen := make(map[string]bool)

	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			// Selector matched a container; look for an anchor inside it.
			href, ok = s.Find("a[href]").First().Attr("href")
			if !ok {
				return
			}
		}
		resolved := canonicalize(href, base)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})

	return links
}

// canonicalize resolves a href against the base URL and strips query
// parameters and fragments. Job boards attach per-request tracking params
// that would otherwise make the same posting look like distinct URLs.
func canonicalize(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "#") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
