package models

import "time"

// RunState tracks the lifecycle of one scheduled or manual scrape run.
type RunState string

const (
	RunPending RunState = "pending"
	RunSuccess RunState = "success"
	RunError   RunState = "error"
	RunSkipped RunState = "skipped"
)

// RunStatus is the sole externally observable record of run progress.
// Created pending before a run starts, updated exactly once on completion.
type RunStatus struct {
	ID          string     `json:"id" badgerhold:"key"`
	UserID      string     `json:"user_id" badgerhold:"index"`
	Label       string     `json:"label"`
	State       RunState   `json:"state"`
	Summary     *RunSummary `json:"summary,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RunSummary is the small machine-readable result attached to a successful run.
type RunSummary struct {
	OffersFound    int `json:"offers_found"`
	OffersEnriched int `json:"offers_enriched"`
	OffersUpserted int `json:"offers_upserted"`
	OffersNew      int `json:"offers_new"`
	PagesCollected int `json:"pages_collected"`
}
