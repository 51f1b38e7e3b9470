package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
)

// RunStorage implements the RunStorage interface for Badger
type RunStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRunStorage creates a new RunStorage instance
func NewRunStorage(db *BadgerDB, logger arbor.ILogger) interfaces.RunStorage {
	return &RunStorage{
		db:     db,
		logger: logger,
	}
}

// Create stores a new pending run status and returns it.
func (s *RunStorage) Create(ctx context.Context, userID, label string) (*models.RunStatus, error) {
	status := &models.RunStatus{
		ID:        common.NewRunID(),
		UserID:    userID,
		Label:     label,
		State:     models.RunPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.db.Store().Insert(status.ID, status); err != nil {
		return nil, fmt.Errorf("failed to create run status: %w", err)
	}
	return status, nil
}

// Update transitions a run to its terminal state.
func (s *RunStorage) Update(ctx context.Context, status *models.RunStatus) error {
	if status.ID == "" {
		return fmt.Errorf("run id is required")
	}
	if err := s.db.Store().Update(status.ID, status); err != nil {
		if err == badgerhold.ErrNotFound {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to update run status: %w", err)
	}
	return nil
}

// Get returns a run status by id.
func (s *RunStorage) Get(ctx context.Context, id string) (*models.RunStatus, error) {
	var status models.RunStatus
	err := s.db.Store().Get(id, &status)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run status: %w", err)
	}
	return &status, nil
}
