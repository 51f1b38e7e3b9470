package interfaces

import (
	"context"
	"errors"

	"github.com/jobscout/jobscout/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrKeyNotFound is returned when a key/value pair does not exist.
var ErrKeyNotFound = errors.New("key not found")

// UpsertResult reports what an offer upsert did.
type UpsertResult struct {
	Inserted bool // true when a new row was created
}

// OfferStorage persists discovered offers with (user, URL) deduplication.
type OfferStorage interface {
	// Upsert inserts or refreshes an offer for the user. Insert flags the
	// record as new and stamps the discovery origin; update refreshes the
	// mutable fields only, preserving origin and creation time.
	Upsert(ctx context.Context, userID string, offer models.ScrapedOffer, origin models.DiscoveryOrigin) (UpsertResult, error)

	// Get returns the stored record for (user, URL).
	Get(ctx context.Context, userID, url string) (*models.OfferRecord, error)

	// ListByUser returns all stored offers for a user.
	ListByUser(ctx context.Context, userID string) ([]models.OfferRecord, error)
}

// ScheduleStorage reads per-user trigger configurations.
type ScheduleStorage interface {
	// ListActive returns every schedule with the active flag set.
	ListActive(ctx context.Context) ([]models.ScheduleConfig, error)

	// Save stores a schedule config keyed by user.
	Save(ctx context.Context, config models.ScheduleConfig) error
}

// CredentialStorage holds per-user site login secrets.
type CredentialStorage interface {
	Get(ctx context.Context, userID, site string) (*models.SiteCredentials, error)
	Save(ctx context.Context, creds models.SiteCredentials) error
}

// CriteriaStorage holds per-user search criteria sets.
type CriteriaStorage interface {
	// ListActive returns the user's active criteria sets.
	ListActive(ctx context.Context, userID string) ([]models.SearchCriteria, error)
	Save(ctx context.Context, criteria models.SearchCriteria) error
}

// RunStorage records run lifecycle state.
type RunStorage interface {
	// Create stores a new pending run status and returns it.
	Create(ctx context.Context, userID, label string) (*models.RunStatus, error)

	// Update transitions a run to its terminal state.
	Update(ctx context.Context, status *models.RunStatus) error

	// Get returns a run status by id.
	Get(ctx context.Context, id string) (*models.RunStatus, error)
}

// KeyValueStorage is a small string KV store used for API key resolution.
type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// StorageManager aggregates the stores behind one handle.
type StorageManager interface {
	OfferStorage() OfferStorage
	ScheduleStorage() ScheduleStorage
	CredentialStorage() CredentialStorage
	CriteriaStorage() CriteriaStorage
	RunStorage() RunStorage
	KeyValueStorage() KeyValueStorage
	Close() error
}
