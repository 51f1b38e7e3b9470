package models

// ScheduleConfig is one user's daily trigger configuration. Read-only input
// to the trigger evaluator; the hour and minute are interpreted in the
// configured IANA timezone, falling back to UTC when the zone is invalid.
type ScheduleConfig struct {
	UserID     string `json:"user_id" badgerhold:"key"`
	Active     bool   `json:"active"`
	Hour       int    `json:"hour" validate:"min=0,max=23"`
	Minute     int    `json:"minute" validate:"min=0,max=59"`
	Timezone   string `json:"timezone"`
	CriteriaID string `json:"criteria_id,omitempty"`
}
