package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/content"
	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
	"github.com/jobscout/jobscout/internal/services/sites"
)

// SnapshotLimit bounds how much accumulated snapshot text is sent to the
// extraction model.
const SnapshotLimit = 30000

// MaxLinks bounds how many discovered links accompany the snapshot.
const MaxLinks = 75

// Service turns an accumulated collection snapshot into typed offers via a
// single structured-extraction LLM call.
type Service struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewService creates the structured extraction service.
func NewService(llm interfaces.LLMService, logger arbor.ILogger) *Service {
	return &Service{llm: llm, logger: logger}
}

// Extract sends one request to the extraction model and parses the response
// into offers. Malformed or absent model output degrades to an empty list so
// a single bad response cannot fail an otherwise successful scrape.
func (s *Service) Extract(ctx context.Context, criteria models.SearchCriteria, site *sites.SiteConfig, snapshot string, links []string) []models.ScrapedOffer {
	if len(links) > MaxLinks {
		links = links[:MaxLinks]
	}

	messages := []interfaces.Message{
		{Role: "system", Content: systemPrompt(site)},
		{Role: "user", Content: userPrompt(criteria, snapshot, links)},
	}

	response, err := s.llm.Chat(ctx, messages)
	if err != nil {
		s.logger.Error().Err(err).Msg("Extraction model call failed, treating as zero offers")
		return nil
	}

	offers := ParseOffers(response, site)
	if len(offers) == 0 {
		s.logger.Warn().
			Int("response_length", len(response)).
			Msg("Extraction produced no offers")
		return nil
	}

	s.logger.Info().
		Int("offers", len(offers)).
		Int("links_sent", len(links)).
		Msg("Offers extracted")

	return offers
}

func systemPrompt(site *sites.SiteConfig) string {
	return fmt.Sprintf(`You extract job postings from a text snapshot of a results page.
Respond with ONLY a JSON array, no prose, no markdown fences. Each element:
{"title": string, "company": string, "location": string, "url": string, "description": string, "salary": string|null, "contract_type": string|null}
Rules:
- at most %d entries
- url must come from the provided link list when possible; resolve relative urls against %s
- skip entries where you cannot determine a title
- salary and contract_type are null when not stated`, MaxOffers, site.BaseURL)
}

func userPrompt(criteria models.SearchCriteria, snapshot string, links []string) string {
	var b strings.Builder

	b.WriteString("Search query: ")
	b.WriteString(criteria.Query)
	if criteria.Location != "" {
		b.WriteString("\nLocation: ")
		b.WriteString(criteria.Location)
	}
	if len(criteria.ExcludedKeywords) > 0 {
		b.WriteString("\nExclude any posting mentioning: ")
		b.WriteString(strings.Join(criteria.ExcludedKeywords, ", "))
	}

	b.WriteString("\n\nPage snapshot:\n")
	b.WriteString(content.Truncate(snapshot, SnapshotLimit))

	b.WriteString("\n\nDiscovered links:\n")
	for _, link := range links {
		b.WriteString(link)
		b.WriteByte('\n')
	}

	return b.String()
}
