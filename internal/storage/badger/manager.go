package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db          *BadgerDB
	offers      interfaces.OfferStorage
	schedules   interfaces.ScheduleStorage
	credentials interfaces.CredentialStorage
	criteria    interfaces.CriteriaStorage
	runs        interfaces.RunStorage
	kv          interfaces.KeyValueStorage
	logger      arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:          db,
		offers:      NewOfferStorage(db, logger),
		schedules:   NewScheduleStorage(db, logger),
		credentials: NewCredentialStorage(db, logger),
		criteria:    NewCriteriaStorage(db, logger),
		runs:        NewRunStorage(db, logger),
		kv:          NewKVStorage(db, logger),
		logger:      logger,
	}

	logger.Info().Msg("Badger storage manager initialized")

	return manager, nil
}

// OfferStorage returns the Offer storage interface
func (m *Manager) OfferStorage() interfaces.OfferStorage {
	return m.offers
}

// ScheduleStorage returns the Schedule storage interface
func (m *Manager) ScheduleStorage() interfaces.ScheduleStorage {
	return m.schedules
}

// CredentialStorage returns the Credential storage interface
func (m *Manager) CredentialStorage() interfaces.CredentialStorage {
	return m.credentials
}

// CriteriaStorage returns the Criteria storage interface
func (m *Manager) CriteriaStorage() interfaces.CriteriaStorage {
	return m.criteria
}

// RunStorage returns the Run storage interface
func (m *Manager) RunStorage() interfaces.RunStorage {
	return m.runs
}

// KeyValueStorage returns the KeyValue storage interface
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
