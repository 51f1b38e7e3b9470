package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const resultsPage = `<html><body>
	<ul>
		<li class="result-card"><a href="/jobs/view/1?refId=abc&trackingId=xyz">First</a></li>
		<li class="result-card"><a href="/jobs/view/2">Second</a></li>
		<li class="result-card"><a href="/jobs/view/1?refId=other">First again</a></li>
	</ul>
	<a class="raw-link" href="https://example.com/jobs/view/3#apply">Third</a>
	<a href="javascript:void(0)">noise</a>
	<a href="mailto:jobs@example.com">mail</a>
</body></html>`

func TestExtractLinks_FirstMatchingSelectorWins(t *testing.T) {
	links := ExtractLinks(resultsPage, "https://example.com", []string{
		".does-not-exist a",
		".result-card",
		".raw-link",
	})

	// The second selector yields links, so the third is never tried.
	assert.Equal(t, []string{
		"https://example.com/jobs/view/1",
		"https://example.com/jobs/view/2",
	}, links)
}

func TestExtractLinks_StripsTrackingParamsAndDedupes(t *testing.T) {
	links := ExtractLinks(resultsPage, "https://example.com", []string{"a[href]"})

	assert.Equal(t, []string{
		"https://example.com/jobs/view/1",
		"https://example.com/jobs/view/2",
		"https://example.com/jobs/view/3",
	}, links)
}

func TestExtractLinks_NoSelectorMatches(t *testing.T) {
	links := ExtractLinks(resultsPage, "https://example.com", []string{".missing"})
	assert.Empty(t, links)
}

func TestExtractLinks_InvalidHTMLBaseIsSafe(t *testing.T) {
	links := ExtractLinks("<not really html", "://bad-base", []string{"a[href]"})
	assert.Empty(t, links)
}
