package models

import "time"

// KeyValuePair is a small settings record, used mainly for API keys that are
// provisioned at runtime instead of through config files.
type KeyValuePair struct {
	Key       string    `json:"key" badgerhold:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
