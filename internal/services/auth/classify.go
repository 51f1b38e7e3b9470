package auth

import (
	"net/url"
	"strings"

	"github.com/jobscout/jobscout/internal/models"
	"github.com/jobscout/jobscout/internal/services/sites"
)

// Classify maps a post-submit URL to a login outcome using the site's known
// path prefix sets. First match wins in the order success, challenge,
// failure. An unrecognized path is treated as success: the site may have
// changed its landing route, and refusing to proceed would be overly strict.
// Callers log unknown paths so the permissive default stays observable.
func Classify(rawURL string, site *sites.SiteConfig) models.LoginOutcome {
	u, err := url.Parse(rawURL)
	if err != nil {
		return models.LoginOutcome{
			State:   models.LoginFailure,
			Message: "could not parse post-login URL: " + rawURL,
		}
	}
	path := u.Path

	for _, prefix := range site.SuccessPrefixes {
		if strings.HasPrefix(path, prefix) {
			return models.LoginOutcome{State: models.LoginSuccess}
		}
	}
	for _, prefix := range site.ChallengePrefixes {
		if strings.HasPrefix(path, prefix) {
			return models.LoginOutcome{
				State:   models.LoginChallenge,
				Message: "the site requested additional verification (two-factor or bot check); complete it manually in a regular browser, then re-run",
			}
		}
	}
	for _, prefix := range site.FailurePrefixes {
		if strings.HasPrefix(path, prefix) {
			return models.LoginOutcome{
				State:   models.LoginFailure,
				Message: "login was rejected, check the configured credentials",
			}
		}
	}

	return models.LoginOutcome{
		State:   models.LoginSuccess,
		Message: "unrecognized post-login path " + path + ", proceeding",
	}
}
