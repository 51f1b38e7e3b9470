package content

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// SnapshotMaxChars caps the size of a page snapshot. The snapshot is favored
// over raw markup because it is far smaller and already exposes the
// interactive roles the extraction model needs.
const SnapshotMaxChars = 15000

// Snapshot renders a compact accessibility-tree-like text representation of
// a page: one line per heading, link, button, input or text block, in
// document order, capped at SnapshotMaxChars.
func Snapshot(htmlStr string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	doc.Find("script, style, noscript, svg, iframe, template").Remove()

	var b strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, a[href], button, input, li, p, span[role]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		line := snapshotLine(s)
		if line == "" {
			return true
		}
		if b.Len()+len(line)+1 > SnapshotMaxChars {
			return false
		}
		b.WriteString(line)
		b.WriteByte('\n')
		return true
	})

	return b.String()
}

// snapshotLine renders one element as a role-prefixed line, or "" when the
// element carries no usable text.
func snapshotLine(s *goquery.Selection) string {
	node := s.Get(0)
	if node == nil {
		return ""
	}

	text := collapseWhitespace(s.Text())

	switch node.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		if text == "" {
			return ""
		}
		return "heading: " + text
	case "a":
		href, _ := s.Attr("href")
		if text == "" && href == "" {
			return ""
		}
		if href != "" {
			return "link: " + text + " [" + href + "]"
		}
		return "link: " + text
	case "button":
		if text == "" {
			return ""
		}
		return "button: " + text
	case "input":
		name, _ := s.Attr("name")
		placeholder, _ := s.Attr("placeholder")
		label := name
		if placeholder != "" {
			label = placeholder
		}
		if label == "" {
			return ""
		}
		return "textbox: " + label
	default:
		// li, p, span[role]: only emit direct text so nested links and
		// paragraphs are not duplicated by their ancestors.
		own := collapseWhitespace(ownText(s))
		if own == "" {
			return ""
		}
		return own
	}
}

// ownText returns the text of the selection's direct text-node children.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for _, node := range s.Nodes {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

// collapseWhitespace trims and collapses runs of whitespace to single spaces.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate caps a string at max characters.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
