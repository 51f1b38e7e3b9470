package collect

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
	"github.com/jobscout/jobscout/internal/services/sites"
)

// ErrBlocked is returned when the very first results page lands on an
// anti-bot block page, meaning the whole query is unreachable.
var ErrBlocked = errors.New("results page blocked by anti-bot check")

// MinSnapshotChars is the threshold under which a page snapshot is
// considered empty and pagination stops.
const MinSnapshotChars = 500

const scrollPasses = 3

// Result is the accumulated output of one pagination sequence. The browser
// session is deliberately left open; ownership passes to the enrichment
// stage so it can reuse the authenticated session.
type Result struct {
	Snapshot string   // per-page snapshots joined with page-boundary markers
	Links    []string // deduplicated result links across all pages
	Pages    int      // pages actually collected
}

// Service is the paginated collection engine.
type Service struct {
	browser     interfaces.BrowserManager
	logger      arbor.ILogger
	maxPages    int
	scrollPause time.Duration
}

// NewService creates a collection engine bounded by the scraper config.
func NewService(browser interfaces.BrowserManager, config common.ScraperConfig, logger arbor.ILogger) *Service {
	maxPages := config.MaxPages
	if maxPages <= 0 {
		maxPages = 3
	}
	return &Service{
		browser:     browser,
		logger:      logger,
		maxPages:    maxPages,
		scrollPause: common.ParseDurationOr(config.ScrollPause, 500*time.Millisecond),
	}
}

// Collect walks the offset-paginated results for the criteria, capturing a
// snapshot and result links per page, with early-stop heuristics: a block
// page after page zero truncates pagination, an under-sized snapshot or a
// page contributing no new links ends it.
func (s *Service) Collect(ctx context.Context, sessionName string, site *sites.SiteConfig, criteria models.SearchCriteria) (*Result, error) {
	result := &Result{}
	seen := make(map[string]bool)
	var snapshots []string

	for page := 0; page < s.maxPages; page++ {
		pageURL := site.SearchURL(criteria.Query, criteria.Location, page)

		if err := s.browser.Navigate(ctx, sessionName, pageURL); err != nil {
			if page == 0 {
				return nil, fmt.Errorf("failed to load first results page: %w", err)
			}
			s.logger.Warn().Err(err).Int("page", page).Msg("Results page navigation failed, keeping collected pages")
			break
		}

		currentURL, err := s.browser.CurrentURL(ctx, sessionName)
		if err != nil {
			return nil, err
		}
		if site.IsBlocked(currentURL) {
			if page == 0 {
				return nil, fmt.Errorf("%w: %s", ErrBlocked, currentURL)
			}
			s.logger.Warn().
				Int("page", page).
				Str("url", currentURL).
				Msg("Block page detected, ending pagination early")
			break
		}

		// Scroll to trigger lazy-loaded results.
		for i := 0; i < scrollPasses; i++ {
			if err := s.browser.Scroll(ctx, sessionName); err != nil {
				break
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.scrollPause):
			}
		}

		snapshot, err := s.browser.Snapshot(ctx, sessionName)
		if err != nil {
			return nil, err
		}
		if len(snapshot) < MinSnapshotChars {
			s.logger.Debug().
				Int("page", page).
				Int("snapshot_chars", len(snapshot)).
				Msg("Snapshot below threshold, no more results")
			break
		}

		snapshots = append(snapshots, fmt.Sprintf("--- PAGE %d ---\n%s", page+1, snapshot))
		result.Pages++

		links, err := s.browser.ExtractLinks(ctx, sessionName, site.LinkSelectors)
		if err != nil {
			return nil, err
		}
		newLinks := 0
		for _, link := range links {
			if !seen[link] {
				seen[link] = true
				result.Links = append(result.Links, link)
				newLinks++
			}
		}

		s.logger.Info().
			Int("page", page).
			Int("new_links", newLinks).
			Int("total_links", len(result.Links)).
			Msg("Results page collected")

		if page > 0 && newLinks == 0 {
			break
		}
	}

	result.Snapshot = strings.Join(snapshots, "\n")
	return result, nil
}
