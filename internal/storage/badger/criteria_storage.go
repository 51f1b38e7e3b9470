package badger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
)

// CriteriaStorage implements the CriteriaStorage interface for Badger
type CriteriaStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewCriteriaStorage creates a new CriteriaStorage instance
func NewCriteriaStorage(db *BadgerDB, logger arbor.ILogger) interfaces.CriteriaStorage {
	return &CriteriaStorage{
		db:     db,
		logger: logger,
	}
}

// ListActive returns the user's active criteria sets.
func (s *CriteriaStorage) ListActive(ctx context.Context, userID string) ([]models.SearchCriteria, error) {
	var criteria []models.SearchCriteria
	err := s.db.Store().Find(&criteria, badgerhold.Where("UserID").Eq(userID).Index("UserID").And("Active").Eq(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list criteria: %w", err)
	}
	return criteria, nil
}

// Save stores a criteria set, assigning an id when missing. The transient
// credential fields are stripped before persisting.
func (s *CriteriaStorage) Save(ctx context.Context, criteria models.SearchCriteria) error {
	if criteria.UserID == "" {
		return fmt.Errorf("criteria user id is required")
	}
	if criteria.ID == "" {
		criteria.ID = uuid.New().String()
	}
	criteria.Identifier = ""
	criteria.Secret = ""

	if err := s.db.Store().Upsert(criteria.ID, &criteria); err != nil {
		return fmt.Errorf("failed to save criteria: %w", err)
	}
	return nil
}
