package models

// SearchCriteria is the immutable input to one scrape run. It carries the
// search parameters plus the credentials needed to authenticate against the
// target site. Never persisted outside the owning user's profile.
type SearchCriteria struct {
	ID               string   `json:"id" badgerhold:"key"`
	UserID           string   `json:"user_id" badgerhold:"index"`
	Query            string   `json:"query" validate:"required"`
	Location         string   `json:"location"`
	Sites            []string `json:"sites" validate:"required,min=1"`
	ContractTypes    []string `json:"contract_types"`
	Remote           bool     `json:"remote"`
	MinSalary        int      `json:"min_salary"`
	ExcludedKeywords []string `json:"excluded_keywords"`
	Active           bool     `json:"active"`

	// Login secrets for the target site. Populated by the consumer from
	// credential storage just before a run, never stored on this struct.
	Identifier string `json:"-"`
	Secret     string `json:"-"`
}

// SiteCredentials holds one user's login secrets for one site.
type SiteCredentials struct {
	Key        string `json:"key" badgerhold:"key"` // userID|site
	UserID     string `json:"user_id" badgerhold:"index"`
	Site       string `json:"site"`
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

// CredentialKey builds the storage key for a user's site credentials.
func CredentialKey(userID, site string) string {
	return userID + "|" + site
}
