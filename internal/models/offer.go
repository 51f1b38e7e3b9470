package models

import "time"

// ScrapedOffer is one job posting discovered during a run. Produced by the
// extraction service, optionally enriched with a fuller description, then
// handed to storage. Title and URL are always non-empty.
type ScrapedOffer struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	URL          string `json:"url"`
	Description  string `json:"description"`
	Salary       string `json:"salary,omitempty"`
	ContractType string `json:"contract_type,omitempty"`
	Source       string `json:"source"`
}

// DiscoveryOrigin tags how an offer first entered the store.
type DiscoveryOrigin string

const (
	OriginScheduled DiscoveryOrigin = "scheduled"
	OriginManual    DiscoveryOrigin = "manual"
)

// OfferRecord is the persisted form of a ScrapedOffer, keyed by (user, URL).
// DiscoveryOrigin and CreatedAt are set on first insert and never overwritten
// by later upserts.
type OfferRecord struct {
	Key             string          `json:"key" badgerhold:"key"`
	UserID          string          `json:"user_id" badgerhold:"index"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	URL             string          `json:"url"`
	Description     string          `json:"description"`
	Salary          string          `json:"salary,omitempty"`
	ContractType    string          `json:"contract_type,omitempty"`
	Source          string          `json:"source"`
	DiscoveryOrigin DiscoveryOrigin `json:"discovery_origin"`
	IsNew           bool            `json:"is_new"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
