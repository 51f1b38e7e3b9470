package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
)

// ScheduleStorage implements the ScheduleStorage interface for Badger
type ScheduleStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewScheduleStorage creates a new ScheduleStorage instance
func NewScheduleStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ScheduleStorage {
	return &ScheduleStorage{
		db:     db,
		logger: logger,
	}
}

// ListActive returns every schedule with the active flag set.
func (s *ScheduleStorage) ListActive(ctx context.Context) ([]models.ScheduleConfig, error) {
	var configs []models.ScheduleConfig
	err := s.db.Store().Find(&configs, badgerhold.Where("Active").Eq(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return configs, nil
}

// Save stores a schedule config keyed by user.
func (s *ScheduleStorage) Save(ctx context.Context, config models.ScheduleConfig) error {
	if config.UserID == "" {
		return fmt.Errorf("schedule user id is required")
	}
	if err := s.db.Store().Upsert(config.UserID, &config); err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}
