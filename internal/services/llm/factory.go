package llm

import (
	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
)

// Services bundles the two models the pipeline uses: a capable extraction
// model and a cheaper cleanup model. Either may be nil when its credential
// cannot be resolved; the run controller fails fast on a nil extractor.
type Services struct {
	Extraction interfaces.LLMService
	Cleanup    interfaces.LLMService
}

// NewServices builds the model pair from configuration. A missing cleanup
// credential degrades to reusing the extraction model for cleanup; a missing
// extraction credential leaves both nil.
func NewServices(config *common.Config, kv interfaces.KeyValueStorage, logger arbor.ILogger) *Services {
	services := &Services{}

	claude, err := NewClaudeService(&config.Claude, kv, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Extraction model unavailable, scrape runs will fail fast")
		return services
	}
	services.Extraction = claude

	gemini, err := NewGeminiService(&config.Gemini, kv, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Cleanup model unavailable, using extraction model for cleanup")
		services.Cleanup = claude
		return services
	}
	services.Cleanup = gemini

	return services
}

// Close shuts down whichever models were initialized.
func (s *Services) Close() {
	if s.Cleanup != nil && s.Cleanup != s.Extraction {
		_ = s.Cleanup.Close()
	}
	if s.Extraction != nil {
		_ = s.Extraction.Close()
	}
}
