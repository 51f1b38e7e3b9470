package enrich

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/time/rate"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/content"
	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
)

// MinRawChars is the minimum detail-page text length worth cleaning up.
const MinRawChars = 100

// RawFallbackLimit caps the raw text used when the cleanup call returns too
// little. Data is never dropped because a cleanup came back short.
const RawFallbackLimit = 2000

// ItemError records a single offer's enrichment failure. Failures are
// isolated per offer; the loop always continues.
type ItemError struct {
	URL string
	Err error
}

// Result is the fold over the enrichment loop: replacement descriptions
// keyed by offer URL plus the per-item error list. Both are exposed so the
// caller can observe partial failures.
type Result struct {
	Descriptions map[string]string
	Errors       []ItemError
	Cleaned      int // offers whose description came from a successful cleanup call
}

// Service visits each offer's detail page over the still-open authenticated
// session and upgrades short listing descriptions to fuller cleaned ones.
type Service struct {
	browser   interfaces.BrowserManager
	cleaner   interfaces.LLMService
	logger    arbor.ILogger
	maxOffers int
	limiter   *rate.Limiter
}

// NewService creates the enrichment pipeline. The limiter paces successive
// detail visits to avoid tripping anti-scraping rate limits.
func NewService(browser interfaces.BrowserManager, cleaner interfaces.LLMService, config common.ScraperConfig, logger arbor.ILogger) *Service {
	maxOffers := config.MaxEnrichOffers
	if maxOffers <= 0 {
		maxOffers = 15
	}
	delay := common.ParseDurationOr(config.DetailDelay, 1500*time.Millisecond)
	return &Service{
		browser:   browser,
		cleaner:   cleaner,
		logger:    logger,
		maxOffers: maxOffers,
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
	}
}

// Enrich processes up to maxOffers offers in order. It does not close the
// session; the run controller owns that.
func (s *Service) Enrich(ctx context.Context, sessionName string, offers []models.ScrapedOffer) *Result {
	result := &Result{Descriptions: make(map[string]string)}

	limit := len(offers)
	if limit > s.maxOffers {
		limit = s.maxOffers
	}

	for i := 0; i < limit; i++ {
		offer := offers[i]

		if err := s.limiter.Wait(ctx); err != nil {
			result.Errors = append(result.Errors, ItemError{URL: offer.URL, Err: err})
			return result
		}

		if err := s.enrichOne(ctx, sessionName, offer, result); err != nil {
			s.logger.Warn().
				Err(err).
				Int("offer", i+1).
				Str("url", offer.URL).
				Msg("Offer enrichment failed, continuing")
			result.Errors = append(result.Errors, ItemError{URL: offer.URL, Err: err})
		}
	}

	s.logger.Info().
		Int("visited", limit).
		Int("replaced", len(result.Descriptions)).
		Int("cleaned", result.Cleaned).
		Int("failures", len(result.Errors)).
		Msg("Enrichment pass completed")

	return result
}

// enrichOne visits one detail page and decides the offer's best description.
func (s *Service) enrichOne(ctx context.Context, sessionName string, offer models.ScrapedOffer, result *Result) error {
	if err := s.browser.Navigate(ctx, sessionName, offer.URL); err != nil {
		return err
	}

	raw, err := s.browser.JobDescription(ctx, sessionName)
	if err != nil {
		return err
	}
	if len(raw) < MinRawChars {
		// Detail page gave us nothing better; keep the listing description.
		return nil
	}

	cleaned, err := s.cleanup(ctx, raw)
	if err == nil && len(cleaned) >= MinRawChars {
		result.Descriptions[offer.URL] = cleaned
		result.Cleaned++
		return nil
	}
	if err != nil {
		s.logger.Debug().Err(err).Str("url", offer.URL).Msg("Cleanup call failed, falling back to raw text")
	}

	// Fall back to truncated raw text, but never downgrade: the raw text
	// only replaces the listing description when it is actually longer.
	fallback := content.Truncate(raw, RawFallbackLimit)
	if len(fallback) > len(offer.Description) {
		result.Descriptions[offer.URL] = fallback
	}
	return nil
}

// cleanup runs the cheaper model over raw detail-page text to strip UI noise.
func (s *Service) cleanup(ctx context.Context, raw string) (string, error) {
	messages := []interfaces.Message{
		{Role: "system", Content: cleanupPrompt},
		{Role: "user", Content: content.Truncate(raw, RawFallbackLimit*4)},
	}
	return s.cleaner.Chat(ctx, messages)
}

const cleanupPrompt = `You clean up job posting text scraped from a web page.
Keep only: company context, responsibilities, required stack, and the candidate profile sought.
Remove navigation labels, footers, promotional blocks, cookie and legal notices.
Respond in structured prose with short paragraphs. No JSON, no markdown fences.`
