package collect

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/models"
	"github.com/jobscout/jobscout/internal/services/sites"
)

// fakePage scripts what the browser reports after navigating to one page.
type fakePage struct {
	currentURL string
	snapshot   string
	links      []string
}

// fakeBrowser is a scripted BrowserManager: each Navigate call advances to
// the next fakePage.
type fakeBrowser struct {
	pages     []fakePage
	index     int
	navigated []string
}

func (f *fakeBrowser) Launch(ctx context.Context, name string) error { return nil }

func (f *fakeBrowser) Navigate(ctx context.Context, name, url string) error {
	f.navigated = append(f.navigated, url)
	f.index = len(f.navigated) - 1
	return nil
}

func (f *fakeBrowser) current() fakePage {
	if f.index < len(f.pages) {
		return f.pages[f.index]
	}
	return fakePage{}
}

func (f *fakeBrowser) Fill(ctx context.Context, name, selector, value string) error { return nil }
func (f *fakeBrowser) Click(ctx context.Context, name, selector string) error       { return nil }
func (f *fakeBrowser) Wait(ctx context.Context, name, selector string, timeout time.Duration) error {
	return nil
}
func (f *fakeBrowser) Scroll(ctx context.Context, name string) error { return nil }

func (f *fakeBrowser) CurrentURL(ctx context.Context, name string) (string, error) {
	return f.current().currentURL, nil
}

func (f *fakeBrowser) Snapshot(ctx context.Context, name string) (string, error) {
	return f.current().snapshot, nil
}

func (f *fakeBrowser) ExtractLinks(ctx context.Context, name string, selectors []string) ([]string, error) {
	return f.current().links, nil
}

func (f *fakeBrowser) JobDescription(ctx context.Context, name string) (string, error) {
	return "", nil
}

func (f *fakeBrowser) Close(name string) {}
func (f *fakeBrowser) OpenSessions() int { return 0 }
func (f *fakeBrowser) Shutdown()         {}

func bigSnapshot(marker string) string {
	return marker + " " + strings.Repeat("result line\n", 100)
}

func pageLinks(prefix string, n int) []string {
	links := make([]string, n)
	for i := range links {
		links[i] = prefix + string(rune('a'+i%26)) + strings.Repeat("x", i/26)
	}
	return links
}

func newTestService(browser *fakeBrowser) *Service {
	svc := NewService(browser, common.ScraperConfig{MaxPages: 3}, common.GetLogger())
	svc.scrollPause = 0
	return svc
}

func testSite(t *testing.T) *sites.SiteConfig {
	site, err := sites.Get("linkedin")
	require.NoError(t, err)
	return site
}

func TestCollect_StopsWhenPageYieldsNoNewLinks(t *testing.T) {
	browser := &fakeBrowser{pages: []fakePage{
		{currentURL: "https://www.linkedin.com/jobs/search/", snapshot: bigSnapshot("p1"), links: pageLinks("https://x/1/", 25)},
		{currentURL: "https://www.linkedin.com/jobs/search/?start=25", snapshot: bigSnapshot("p2"), links: pageLinks("https://x/2/", 25)},
		{currentURL: "https://www.linkedin.com/jobs/search/?start=50", snapshot: bigSnapshot("p3"), links: nil},
	}}

	result, err := newTestService(browser).Collect(context.Background(), "s", testSite(t), models.SearchCriteria{Query: "golang"})
	require.NoError(t, err)

	assert.Len(t, result.Links, 50)
	assert.Len(t, browser.navigated, 3)
	assert.Contains(t, result.Snapshot, "--- PAGE 1 ---")
	assert.Contains(t, result.Snapshot, "--- PAGE 2 ---")
}

func TestCollect_StopsOnShortSnapshot(t *testing.T) {
	browser := &fakeBrowser{pages: []fakePage{
		{currentURL: "https://www.linkedin.com/jobs/search/", snapshot: bigSnapshot("p1"), links: pageLinks("https://x/1/", 10)},
		{currentURL: "https://www.linkedin.com/jobs/search/?start=25", snapshot: "almost nothing here"},
	}}

	result, err := newTestService(browser).Collect(context.Background(), "s", testSite(t), models.SearchCriteria{Query: "golang"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pages)
	assert.Len(t, result.Links, 10)
	assert.Len(t, browser.navigated, 2)
	assert.NotContains(t, result.Snapshot, "--- PAGE 2 ---")
}

func TestCollect_BlockOnFirstPageIsFatal(t *testing.T) {
	browser := &fakeBrowser{pages: []fakePage{
		{currentURL: "https://www.linkedin.com/checkpoint/captcha"},
	}}

	_, err := newTestService(browser).Collect(context.Background(), "s", testSite(t), models.SearchCriteria{Query: "golang"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBlocked)
}

func TestCollect_BlockOnLaterPageKeepsCollected(t *testing.T) {
	browser := &fakeBrowser{pages: []fakePage{
		{currentURL: "https://www.linkedin.com/jobs/search/", snapshot: bigSnapshot("p1"), links: pageLinks("https://x/1/", 25)},
		{currentURL: "https://www.linkedin.com/checkpoint/captcha", snapshot: bigSnapshot("blocked")},
	}}

	result, err := newTestService(browser).Collect(context.Background(), "s", testSite(t), models.SearchCriteria{Query: "golang"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pages)
	assert.Len(t, result.Links, 25)
}

func TestCollect_DuplicateLinksAcrossPagesCountAsNotNew(t *testing.T) {
	same := pageLinks("https://x/1/", 5)
	browser := &fakeBrowser{pages: []fakePage{
		{currentURL: "https://www.linkedin.com/jobs/search/", snapshot: bigSnapshot("p1"), links: same},
		{currentURL: "https://www.linkedin.com/jobs/search/?start=25", snapshot: bigSnapshot("p2"), links: same},
		{currentURL: "https://www.linkedin.com/jobs/search/?start=50", snapshot: bigSnapshot("p3"), links: pageLinks("https://x/3/", 5)},
	}}

	result, err := newTestService(browser).Collect(context.Background(), "s", testSite(t), models.SearchCriteria{Query: "golang"})
	require.NoError(t, err)

	// Page 2 repeats page 1's links, so pagination ends there.
	assert.Len(t, result.Links, 5)
	assert.Len(t, browser.navigated, 2)
}
