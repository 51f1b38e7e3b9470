package auth

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
	"github.com/jobscout/jobscout/internal/services/sites"
)

// Service drives the login form and classifies the result. It is the single
// authorization gate for the rest of the pipeline; no later stage re-checks
// credentials.
type Service struct {
	browser interfaces.BrowserManager
	logger  arbor.ILogger
	settle  time.Duration
}

// NewService creates the authentication state machine. A settle of zero
// selects the default redirect wait.
func NewService(browser interfaces.BrowserManager, logger arbor.ILogger, settle time.Duration) *Service {
	if settle <= 0 {
		settle = 3 * time.Second
	}
	return &Service{
		browser: browser,
		logger:  logger,
		settle:  settle,
	}
}

// Login navigates to the site's login page, submits the credentials, waits a
// fixed settle period and classifies the resulting URL. Any error along the
// way is reported as a Failure outcome rather than raised, so the caller
// always receives a terminal state.
func (s *Service) Login(ctx context.Context, sessionName string, site *sites.SiteConfig, identifier, secret string) models.LoginOutcome {
	s.logger.Info().
		Str("session", sessionName).
		Str("site", site.ID).
		Msg("Starting login sequence")

	steps := []func() error{
		func() error { return s.browser.Navigate(ctx, sessionName, site.LoginURL) },
		func() error { return s.browser.Fill(ctx, sessionName, site.IdentifierSelector, identifier) },
		func() error { return s.browser.Fill(ctx, sessionName, site.SecretSelector, secret) },
		func() error { return s.browser.Click(ctx, sessionName, site.SubmitSelector) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			s.logger.Warn().Err(err).Str("site", site.ID).Msg("Login sequence failed")
			return models.LoginOutcome{State: models.LoginFailure, Message: err.Error()}
		}
	}

	// Give the site time to redirect before reading the landing URL.
	select {
	case <-ctx.Done():
		return models.LoginOutcome{State: models.LoginFailure, Message: ctx.Err().Error()}
	case <-time.After(s.settle):
	}

	landingURL, err := s.browser.CurrentURL(ctx, sessionName)
	if err != nil {
		return models.LoginOutcome{State: models.LoginFailure, Message: err.Error()}
	}

	outcome := Classify(landingURL, site)
	if outcome.State != models.LoginSuccess || outcome.Message != "" {
		s.logger.Warn().
			Str("site", site.ID).
			Str("landing_url", landingURL).
			Str("outcome", string(outcome.State)).
			Str("detail", outcome.Message).
			Msg("Login classified")
	} else {
		s.logger.Info().
			Str("site", site.ID).
			Str("outcome", string(outcome.State)).
			Msg("Login classified")
	}

	return outcome
}
