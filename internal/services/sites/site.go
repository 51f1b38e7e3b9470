package sites

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SiteConfig describes everything site-specific the pipeline needs: where to
// log in, how to recognize the post-login landing routes, how to build an
// offset-paginated search URL, and which selectors carry result links.
type SiteConfig struct {
	ID             string
	BaseURL        string
	LoginURL       string
	ResultsPerPage int

	// Login form selectors.
	IdentifierSelector string
	SecretSelector     string
	SubmitSelector     string

	// Post-submit URL path classification sets. First match wins in the
	// order: success, challenge, failure.
	SuccessPrefixes   []string
	ChallengePrefixes []string
	FailurePrefixes   []string

	// Substrings of a current URL that indicate an anti-bot block page.
	BlockSignatures []string

	// Ordered candidate selectors for result links, tried until one yields
	// at least one link.
	LinkSelectors []string
}

// SearchURL builds the results URL for a page index using offset pagination.
func (c *SiteConfig) SearchURL(query, location string, page int) string {
	params := url.Values{}
	params.Set("keywords", query)
	if location != "" {
		params.Set("location", location)
	}
	if offset := page * c.ResultsPerPage; offset > 0 {
		params.Set("start", strconv.Itoa(offset))
	}
	return fmt.Sprintf("%s/jobs/search/?%s", c.BaseURL, params.Encode())
}

// IsBlocked reports whether the URL matches a block-page signature.
func (c *SiteConfig) IsBlocked(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, sig := range c.BlockSignatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}

// linkedIn is the configuration for the one supported professional network.
var linkedIn = &SiteConfig{
	ID:             "linkedin",
	BaseURL:        "https://www.linkedin.com",
	LoginURL:       "https://www.linkedin.com/login",
	ResultsPerPage: 25,

	IdentifierSelector: "#username",
	SecretSelector:     "#password",
	SubmitSelector:     "button[type='submit']",

	SuccessPrefixes:   []string{"/feed", "/home", "/jobs"},
	ChallengePrefixes: []string{"/checkpoint", "/challenge", "/uas/consumer-email-challenge"},
	FailurePrefixes:   []string{"/login", "/uas/login"},

	BlockSignatures: []string{"captcha", "challenge", "verify"},

	LinkSelectors: []string{
		"a.job-card-container__link",
		"li.jobs-search-results__list-item a[href*='/jobs/view/']",
		"a[href*='/jobs/view/']",
	},
}

var registry = map[string]*SiteConfig{
	linkedIn.ID: linkedIn,
}

// Get returns the configuration for a site identifier.
func Get(id string) (*SiteConfig, error) {
	config, ok := registry[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("unknown site: %s", id)
	}
	return config, nil
}
