package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
)

// OfferStorage implements the OfferStorage interface for Badger
type OfferStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewOfferStorage creates a new OfferStorage instance
func NewOfferStorage(db *BadgerDB, logger arbor.ILogger) interfaces.OfferStorage {
	return &OfferStorage{
		db:     db,
		logger: logger,
	}
}

// offerKey builds the (user, URL) dedup key.
func offerKey(userID, url string) string {
	return userID + "|" + url
}

// Upsert inserts or refreshes an offer. The first insert stamps the discovery
// origin and creation time; later upserts of the same (user, URL) refresh the
// mutable fields only and clear the new flag.
func (s *OfferStorage) Upsert(ctx context.Context, userID string, offer models.ScrapedOffer, origin models.DiscoveryOrigin) (interfaces.UpsertResult, error) {
	if offer.URL == "" {
		return interfaces.UpsertResult{}, fmt.Errorf("offer URL is required")
	}

	key := offerKey(userID, offer.URL)
	now := time.Now().UTC()

	record := models.OfferRecord{
		Key:             key,
		UserID:          userID,
		Title:           offer.Title,
		Company:         offer.Company,
		Location:        offer.Location,
		URL:             offer.URL,
		Description:     offer.Description,
		Salary:          offer.Salary,
		ContractType:    offer.ContractType,
		Source:          offer.Source,
		DiscoveryOrigin: origin,
		IsNew:           true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var existing models.OfferRecord
	err := s.db.Store().Get(key, &existing)
	inserted := err == badgerhold.ErrNotFound
	if err != nil && err != badgerhold.ErrNotFound {
		return interfaces.UpsertResult{}, fmt.Errorf("failed to check offer existence: %w", err)
	}
	if !inserted {
		record.DiscoveryOrigin = existing.DiscoveryOrigin
		record.CreatedAt = existing.CreatedAt
		record.IsNew = false
	}

	if err := s.db.Store().Upsert(key, &record); err != nil {
		return interfaces.UpsertResult{}, fmt.Errorf("failed to upsert offer: %w", err)
	}

	return interfaces.UpsertResult{Inserted: inserted}, nil
}

// Get returns the stored record for (user, URL).
func (s *OfferStorage) Get(ctx context.Context, userID, url string) (*models.OfferRecord, error) {
	var record models.OfferRecord
	err := s.db.Store().Get(offerKey(userID, url), &record)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get offer: %w", err)
	}
	return &record, nil
}

// ListByUser returns all stored offers for a user, most recently updated first.
func (s *OfferStorage) ListByUser(ctx context.Context, userID string) ([]models.OfferRecord, error) {
	var records []models.OfferRecord
	err := s.db.Store().Find(&records, badgerhold.Where("UserID").Eq(userID).Index("UserID").SortBy("UpdatedAt").Reverse())
	if err != nil {
		return nil, fmt.Errorf("failed to list offers: %w", err)
	}
	return records, nil
}
