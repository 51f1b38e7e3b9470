package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_RolesInDocumentOrder(t *testing.T) {
	html := `<html><body>
		<h1>Search results</h1>
		<a href="/jobs/view/1">Backend Developer</a>
		<button>Apply</button>
		<input name="keywords" placeholder="Search jobs">
		<p>25 results</p>
	</body></html>`

	snap := Snapshot(html)
	lines := strings.Split(strings.TrimSpace(snap), "\n")

	assert.Equal(t, "heading: Search results", lines[0])
	assert.Equal(t, "link: Backend Developer [/jobs/view/1]", lines[1])
	assert.Equal(t, "button: Apply", lines[2])
	assert.Equal(t, "textbox: Search jobs", lines[3])
	assert.Equal(t, "25 results", lines[4])
}

func TestSnapshot_StripsScriptsAndStyles(t *testing.T) {
	html := `<html><body>
		<script>var tracking = true;</script>
		<style>.x{color:red}</style>
		<p>visible</p>
	</body></html>`

	snap := Snapshot(html)
	assert.Contains(t, snap, "visible")
	assert.NotContains(t, snap, "tracking")
	assert.NotContains(t, snap, "color:red")
}

func TestSnapshot_CappedAtMaxChars(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 2000; i++ {
		b.WriteString("<p>some reasonably long paragraph of page content here</p>")
	}
	b.WriteString("</body></html>")

	snap := Snapshot(b.String())
	assert.LessOrEqual(t, len(snap), SnapshotMaxChars)
	assert.Greater(t, len(snap), 0)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "ab", Truncate("abcd", 2))
}
