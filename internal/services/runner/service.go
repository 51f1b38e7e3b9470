package runner

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
	"github.com/jobscout/jobscout/internal/services/auth"
	"github.com/jobscout/jobscout/internal/services/collect"
	"github.com/jobscout/jobscout/internal/services/enrich"
	"github.com/jobscout/jobscout/internal/services/extract"
	"github.com/jobscout/jobscout/internal/services/sites"
)

// ErrNotConfigured is returned before any resource is opened when the
// extraction model credential is missing.
var ErrNotConfigured = errors.New("extraction service credential is not configured")

// ErrLoginChallenge indicates the site demanded verification a human must
// complete; the run cannot be retried automatically.
var ErrLoginChallenge = errors.New("login challenge")

// ErrLoginFailed indicates the site rejected the configured credentials.
var ErrLoginFailed = errors.New("login failed")

// Stats summarizes one run for status reporting.
type Stats struct {
	Pages        int
	Extracted    int
	Enriched     int
	Cleaned      int
	EnrichErrors int
}

// Service is the run controller: it sequences login, collection, extraction
// and enrichment for one SearchCriteria and guarantees the browser session
// is closed on every exit path. A leaked headless browser accumulates
// silently, which makes that guarantee the most important invariant here.
type Service struct {
	browser   interfaces.BrowserManager
	auth      *auth.Service
	collector *collect.Service
	extractor *extract.Service
	enricher  *enrich.Service
	logger    arbor.ILogger
}

// NewService wires the run controller. Extractor and enricher may be nil
// when no LLM credential is configured; Run then fails fast.
func NewService(browser interfaces.BrowserManager, authService *auth.Service, collector *collect.Service, extractor *extract.Service, enricher *enrich.Service, logger arbor.ILogger) *Service {
	return &Service{
		browser:   browser,
		auth:      authService,
		collector: collector,
		extractor: extractor,
		enricher:  enricher,
		logger:    logger,
	}
}

// Run executes one end-to-end scrape for the criteria and returns the
// enriched offers. An empty slice with a nil error means the search simply
// found nothing this run.
func (s *Service) Run(ctx context.Context, userID string, criteria models.SearchCriteria) ([]models.ScrapedOffer, Stats, error) {
	var stats Stats

	// Fail fast: nothing has been opened yet, no cleanup needed.
	if s.extractor == nil || s.enricher == nil {
		return nil, stats, ErrNotConfigured
	}
	if len(criteria.Sites) == 0 {
		return nil, stats, fmt.Errorf("criteria has no target site")
	}
	site, err := sites.Get(criteria.Sites[0])
	if err != nil {
		return nil, stats, err
	}

	sessionName := common.NewSessionName(userID, site.ID)
	if err := s.browser.Launch(ctx, sessionName); err != nil {
		return nil, stats, fmt.Errorf("failed to launch browser session: %w", err)
	}
	// The session must be released on every exit path, including panics and
	// early returns. Close is idempotent.
	defer s.browser.Close(sessionName)

	outcome := s.auth.Login(ctx, sessionName, site, criteria.Identifier, criteria.Secret)
	switch outcome.State {
	case models.LoginChallenge:
		return nil, stats, fmt.Errorf("%w: %s", ErrLoginChallenge, outcome.Message)
	case models.LoginFailure:
		return nil, stats, fmt.Errorf("%w: %s", ErrLoginFailed, outcome.Message)
	}

	collected, err := s.collector.Collect(ctx, sessionName, site, criteria)
	if err != nil {
		return nil, stats, err
	}
	stats.Pages = collected.Pages
	if collected.Snapshot == "" {
		s.logger.Info().Str("user_id", userID).Msg("No usable snapshot collected, returning empty result")
		return []models.ScrapedOffer{}, stats, nil
	}

	offers := s.extractor.Extract(ctx, criteria, site, collected.Snapshot, collected.Links)
	stats.Extracted = len(offers)
	if len(offers) == 0 {
		return []models.ScrapedOffer{}, stats, nil
	}

	enriched := s.enricher.Enrich(ctx, sessionName, offers)
	stats.Enriched = len(enriched.Descriptions)
	stats.Cleaned = enriched.Cleaned
	stats.EnrichErrors = len(enriched.Errors)

	// Merge enriched descriptions back by URL; offers that were not
	// enriched keep their original short description.
	for i := range offers {
		if description, ok := enriched.Descriptions[offers[i].URL]; ok {
			offers[i].Description = description
		}
	}

	s.logger.Info().
		Str("user_id", userID).
		Int("pages", stats.Pages).
		Int("offers", stats.Extracted).
		Int("enriched", stats.Enriched).
		Msg("Run completed")

	return offers, stats, nil
}
