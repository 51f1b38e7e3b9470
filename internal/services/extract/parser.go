package extract

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/jobscout/jobscout/internal/models"
	"github.com/jobscout/jobscout/internal/services/sites"
)

// MaxOffers caps how many offers one extraction may yield.
const MaxOffers = 75

// The model is instructed to return only a JSON array, but occasionally
// wraps it in prose. Grab the first bracketed block instead of trusting the
// whole response.
var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// rawOffer mirrors the JSON schema the model is asked to produce. Optional
// fields stay pointers so "null" and "absent" both map to empty.
type rawOffer struct {
	Title        string  `json:"title"`
	Company      string  `json:"company"`
	Location     string  `json:"location"`
	URL          string  `json:"url"`
	Description  string  `json:"description"`
	Salary       *string `json:"salary"`
	ContractType *string `json:"contract_type"`
}

// ParseOffers turns a model response into typed offers. Entries without a
// title or URL are dropped, relative URLs are resolved against the site
// base, optional fields default to empty and the result is capped at
// MaxOffers. Any parse failure yields an empty slice: a failed extraction
// means zero offers this run, not a failed run.
func ParseOffers(response string, site *sites.SiteConfig) []models.ScrapedOffer {
	block := arrayPattern.FindString(response)
	if block == "" {
		return nil
	}

	var raw []rawOffer
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return nil
	}

	offers := make([]models.ScrapedOffer, 0, len(raw))
	for _, r := range raw {
		title := strings.TrimSpace(r.Title)
		offerURL := resolveURL(strings.TrimSpace(r.URL), site.BaseURL)
		if title == "" || offerURL == "" {
			continue
		}

		offer := models.ScrapedOffer{
			Title:       title,
			Company:     strings.TrimSpace(r.Company),
			Location:    strings.TrimSpace(r.Location),
			URL:         offerURL,
			Description: strings.TrimSpace(r.Description),
			Source:      site.ID,
		}
		if r.Salary != nil {
			offer.Salary = strings.TrimSpace(*r.Salary)
		}
		if r.ContractType != nil {
			offer.ContractType = strings.TrimSpace(*r.ContractType)
		}

		offers = append(offers, offer)
		if len(offers) >= MaxOffers {
			break
		}
	}

	return offers
}

// resolveURL makes a possibly relative offer URL absolute against the site
// base. Anything unparseable resolves to "" and the offer is dropped.
func resolveURL(rawURL, baseURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.IsAbs() {
		return u.String()
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return base.ResolveReference(u).String()
}
