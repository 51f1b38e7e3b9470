package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func longText(word string, n int) string {
	return strings.TrimSpace(strings.Repeat(word+" ", n))
}

func TestJobDescription_SemanticSelector(t *testing.T) {
	body := longText("responsibilities", 30)
	html := `<html><body>
		<nav>Home Jobs Profile</nav>
		<div class="jobs-description__content">` + body + `</div>
		<footer>Legal</footer>
	</body></html>`

	desc := JobDescription(html)
	assert.Contains(t, desc, "responsibilities")
	assert.NotContains(t, desc, "Legal")
}

func TestJobDescription_SemanticSelectorTooShort(t *testing.T) {
	// A semantic match under the minimum length must not win; the cascade
	// falls through to the density ranking.
	dense := longText("requirement", 40)
	html := `<html><body>
		<div class="description">short</div>
		<div><p>` + dense + `</p></div>
	</body></html>`

	desc := JobDescription(html)
	assert.Contains(t, desc, "requirement")
	assert.NotEqual(t, "short", desc)
}

func TestJobDescription_DensityIgnoresChrome(t *testing.T) {
	noise := longText("menuitem", 60)
	dense := longText("golang", 60)
	html := `<html><body>
		<nav><div>` + noise + `</div></nav>
		<section>` + dense + `</section>
	</body></html>`

	desc := JobDescription(html)
	assert.Contains(t, desc, "golang")
	assert.NotContains(t, desc, "menuitem")
}

func TestJobDescription_FallsBackToMain(t *testing.T) {
	html := `<html><body>
		<main>A short posting body.</main>
	</body></html>`

	desc := JobDescription(html)
	assert.Contains(t, desc, "A short posting body.")
}

func TestJobDescription_FallsBackToWholePage(t *testing.T) {
	html := `<html><body><p>tiny</p></body></html>`
	assert.Contains(t, JobDescription(html), "tiny")
}
