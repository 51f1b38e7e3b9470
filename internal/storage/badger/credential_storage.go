package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
)

// CredentialStorage implements the CredentialStorage interface for Badger
type CredentialStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCredentialStorage creates a new CredentialStorage instance
func NewCredentialStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CredentialStorage {
	return &CredentialStorage{
		db:     db,
		logger: logger,
	}
}

// Get returns the user's login secrets for a site.
func (s *CredentialStorage) Get(ctx context.Context, userID, site string) (*models.SiteCredentials, error) {
	var creds models.SiteCredentials
	err := s.db.Store().Get(models.CredentialKey(userID, site), &creds)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials: %w", err)
	}
	return &creds, nil
}

// Save stores the user's login secrets for a site.
func (s *CredentialStorage) Save(ctx context.Context, creds models.SiteCredentials) error {
	if creds.UserID == "" || creds.Site == "" {
		return fmt.Errorf("credential user id and site are required")
	}
	creds.Key = models.CredentialKey(creds.UserID, creds.Site)
	if err := s.db.Store().Upsert(creds.Key, &creds); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}
