package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
)

// fakeBrowser serves scripted descriptions per URL and can fail navigation
// for specific URLs.
type fakeBrowser struct {
	descriptions map[string]string
	failNav      map[string]bool
	visited      []string
	lastURL      string
}

func (f *fakeBrowser) Launch(ctx context.Context, name string) error { return nil }

func (f *fakeBrowser) Navigate(ctx context.Context, name, url string) error {
	if f.failNav[url] {
		return errors.New("navigation failed")
	}
	f.visited = append(f.visited, url)
	f.lastURL = url
	return nil
}

func (f *fakeBrowser) Fill(ctx context.Context, name, selector, value string) error { return nil }
func (f *fakeBrowser) Click(ctx context.Context, name, selector string) error       { return nil }
func (f *fakeBrowser) Wait(ctx context.Context, name, selector string, timeout time.Duration) error {
	return nil
}
func (f *fakeBrowser) Scroll(ctx context.Context, name string) error { return nil }
func (f *fakeBrowser) CurrentURL(ctx context.Context, name string) (string, error) {
	return f.lastURL, nil
}
func (f *fakeBrowser) Snapshot(ctx context.Context, name string) (string, error) { return "", nil }
func (f *fakeBrowser) ExtractLinks(ctx context.Context, name string, selectors []string) ([]string, error) {
	return nil, nil
}

func (f *fakeBrowser) JobDescription(ctx context.Context, name string) (string, error) {
	return f.descriptions[f.lastURL], nil
}

func (f *fakeBrowser) Close(name string) {}
func (f *fakeBrowser) OpenSessions() int { return 0 }
func (f *fakeBrowser) Shutdown()         {}

type fakeCleaner struct {
	response string
	err      error
	calls    int
}

func (f *fakeCleaner) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	f.calls++
	return f.response, f.err
}
func (f *fakeCleaner) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeCleaner) Close() error                          { return nil }

func fastConfig() common.ScraperConfig {
	return common.ScraperConfig{MaxEnrichOffers: 15, DetailDelay: "1ms"}
}

func makeOffers(n int) []models.ScrapedOffer {
	offers := make([]models.ScrapedOffer, n)
	for i := range offers {
		offers[i] = models.ScrapedOffer{
			Title: fmt.Sprintf("Offer %d", i+1),
			URL:   fmt.Sprintf("https://x/%d", i+1),
		}
	}
	return offers
}

func TestEnrich_CleanedDescriptionReplaces(t *testing.T) {
	raw := strings.Repeat("raw detail text ", 20)
	cleaned := strings.Repeat("cleaned responsibilities ", 10)
	browser := &fakeBrowser{descriptions: map[string]string{"https://x/1": raw}}
	cleaner := &fakeCleaner{response: cleaned}

	svc := NewService(browser, cleaner, fastConfig(), common.GetLogger())
	result := svc.Enrich(context.Background(), "s", makeOffers(1))

	assert.Equal(t, cleaned, result.Descriptions["https://x/1"])
	assert.Equal(t, 1, result.Cleaned)
	assert.Empty(t, result.Errors)
}

func TestEnrich_ShortCleanupFallsBackToRaw(t *testing.T) {
	raw := strings.Repeat("raw detail text ", 20)
	browser := &fakeBrowser{descriptions: map[string]string{"https://x/1": raw}}
	cleaner := &fakeCleaner{response: "too short"}

	svc := NewService(browser, cleaner, fastConfig(), common.GetLogger())
	result := svc.Enrich(context.Background(), "s", makeOffers(1))

	assert.Equal(t, raw, result.Descriptions["https://x/1"])
	assert.Zero(t, result.Cleaned)
}

func TestEnrich_CleanerErrorFallsBackToRaw(t *testing.T) {
	raw := strings.Repeat("raw detail text ", 20)
	browser := &fakeBrowser{descriptions: map[string]string{"https://x/1": raw}}
	cleaner := &fakeCleaner{err: errors.New("quota exceeded")}

	svc := NewService(browser, cleaner, fastConfig(), common.GetLogger())
	result := svc.Enrich(context.Background(), "s", makeOffers(1))

	assert.Equal(t, raw, result.Descriptions["https://x/1"])
	assert.Empty(t, result.Errors, "cleanup failure is a fallback, not an item error")
}

func TestEnrich_ShortRawTextKeepsOriginal(t *testing.T) {
	browser := &fakeBrowser{descriptions: map[string]string{"https://x/1": "tiny"}}
	cleaner := &fakeCleaner{}

	svc := NewService(browser, cleaner, fastConfig(), common.GetLogger())
	result := svc.Enrich(context.Background(), "s", makeOffers(1))

	assert.Empty(t, result.Descriptions)
	assert.Zero(t, cleaner.calls)
}

func TestEnrich_SingleFailureDoesNotStopLoop(t *testing.T) {
	offers := makeOffers(15)
	descriptions := make(map[string]string, len(offers))
	for _, o := range offers {
		descriptions[o.URL] = strings.Repeat("detail ", 30)
	}
	browser := &fakeBrowser{
		descriptions: descriptions,
		failNav:      map[string]bool{"https://x/7": true},
	}
	cleaner := &fakeCleaner{response: strings.Repeat("cleaned ", 20)}

	svc := NewService(browser, cleaner, fastConfig(), common.GetLogger())
	result := svc.Enrich(context.Background(), "s", offers)

	assert.Len(t, result.Descriptions, 14)
	assert.NotContains(t, result.Descriptions, "https://x/7")
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "https://x/7", result.Errors[0].URL)
	assert.Len(t, browser.visited, 14)
}

func TestEnrich_CapsAtMaxOffers(t *testing.T) {
	offers := makeOffers(30)
	browser := &fakeBrowser{descriptions: map[string]string{}}
	svc := NewService(browser, &fakeCleaner{}, fastConfig(), common.GetLogger())

	svc.Enrich(context.Background(), "s", offers)
	assert.Len(t, browser.visited, 15)
}

func TestEnrich_NeverDowngradesDescription(t *testing.T) {
	// Raw detail text is longer than MinRawChars but shorter than the
	// already-extracted description; with cleanup failing, the original
	// must be kept.
	raw := strings.Repeat("r", MinRawChars+10)
	original := strings.Repeat("o", RawFallbackLimit+500)

	offers := makeOffers(1)
	offers[0].Description = original

	browser := &fakeBrowser{descriptions: map[string]string{"https://x/1": raw}}
	cleaner := &fakeCleaner{err: errors.New("unavailable")}

	svc := NewService(browser, cleaner, fastConfig(), common.GetLogger())
	result := svc.Enrich(context.Background(), "s", offers)

	assert.Empty(t, result.Descriptions)
}
