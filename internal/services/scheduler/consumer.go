package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/models"
	"github.com/jobscout/jobscout/internal/services/runner"
)

// runInvoker is the slice of the run controller the consumer needs.
type runInvoker interface {
	Run(ctx context.Context, userID string, criteria models.SearchCriteria) ([]models.ScrapedOffer, runner.Stats, error)
}

// Consumer turns trigger events into scrape runs. Runs for the same user are
// serialized with a per-user mutex so a second trigger queues instead of
// opening a second browser session; runs for different users may overlap.
type Consumer struct {
	runner  runInvoker
	storage interfaces.StorageManager
	logger  arbor.ILogger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewConsumer creates the trigger consumer.
func NewConsumer(runService *runner.Service, storage interfaces.StorageManager, logger arbor.ILogger) *Consumer {
	return &Consumer{
		runner:  runService,
		storage: storage,
		logger:  logger,
		locks:   make(map[string]*sync.Mutex),
	}
}

// HandleTrigger is the event handler for scrape trigger events.
func (c *Consumer) HandleTrigger(ctx context.Context, event interfaces.Event) error {
	payload, ok := event.Payload.(interfaces.TriggerPayload)
	if !ok {
		return fmt.Errorf("unexpected trigger payload type %T", event.Payload)
	}
	return c.processUser(ctx, payload.UserID, models.OriginScheduled)
}

// TriggerNow runs the user's scrape immediately, outside the schedule. It
// obeys the same per-user serialization as scheduled triggers.
func (c *Consumer) TriggerNow(ctx context.Context, userID string) error {
	return c.processUser(ctx, userID, models.OriginManual)
}

func (c *Consumer) userLock(userID string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[userID] = lock
	}
	return lock
}

func (c *Consumer) processUser(ctx context.Context, userID string, origin models.DiscoveryOrigin) error {
	lock := c.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	criteriaList, err := c.storage.CriteriaStorage().ListActive(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load criteria for user %s: %w", userID, err)
	}
	if len(criteriaList) == 0 {
		c.recordSkipped(ctx, userID, "no active search criteria")
		return nil
	}

	for _, criteria := range criteriaList {
		c.runCriteria(ctx, userID, criteria, origin)
	}
	return nil
}

// runCriteria executes one criteria set and records its run status. Failures
// are captured on the status, never propagated; one bad criteria set must
// not block the user's remaining ones.
func (c *Consumer) runCriteria(ctx context.Context, userID string, criteria models.SearchCriteria, origin models.DiscoveryOrigin) {
	status, err := c.storage.RunStorage().Create(ctx, userID, runLabel(criteria, origin))
	if err != nil {
		c.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create run status")
		return
	}

	if len(criteria.Sites) == 0 {
		c.finish(ctx, status, models.RunSkipped, "criteria has no target site", nil)
		return
	}

	creds, err := c.storage.CredentialStorage().Get(ctx, userID, criteria.Sites[0])
	if err != nil {
		c.finish(ctx, status, models.RunSkipped, fmt.Sprintf("no credentials for site %s", criteria.Sites[0]), nil)
		return
	}
	criteria.Identifier = creds.Identifier
	criteria.Secret = creds.Secret

	offers, stats, err := c.runner.Run(ctx, userID, criteria)
	if err != nil {
		c.finish(ctx, status, models.RunError, err.Error(), nil)
		return
	}

	upserted, inserted := c.persistOffers(ctx, userID, offers, origin)

	summary := &models.RunSummary{
		OffersFound:    stats.Extracted,
		OffersEnriched: stats.Enriched,
		OffersUpserted: upserted,
		OffersNew:      inserted,
		PagesCollected: stats.Pages,
	}
	c.finish(ctx, status, models.RunSuccess, "", summary)

	c.logger.Info().
		Str("user_id", userID).
		Str("run_id", status.ID).
		Int("offers_upserted", upserted).
		Int("offers_new", inserted).
		Msg("Scrape run recorded")
}

// persistOffers upserts each offer with per-offer error isolation.
func (c *Consumer) persistOffers(ctx context.Context, userID string, offers []models.ScrapedOffer, origin models.DiscoveryOrigin) (upserted, inserted int) {
	for _, offer := range offers {
		result, err := c.storage.OfferStorage().Upsert(ctx, userID, offer, origin)
		if err != nil {
			c.logger.Warn().
				Err(err).
				Str("user_id", userID).
				Str("url", offer.URL).
				Msg("Offer upsert failed, continuing")
			continue
		}
		upserted++
		if result.Inserted {
			inserted++
		}
	}
	return upserted, inserted
}

// recordSkipped writes a skipped run so the trigger leaves a visible trace.
func (c *Consumer) recordSkipped(ctx context.Context, userID, reason string) {
	status, err := c.storage.RunStorage().Create(ctx, userID, "scheduled scrape")
	if err != nil {
		c.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create skipped run status")
		return
	}
	c.finish(ctx, status, models.RunSkipped, reason, nil)
}

func (c *Consumer) finish(ctx context.Context, status *models.RunStatus, state models.RunState, message string, summary *models.RunSummary) {
	now := time.Now().UTC()
	status.State = state
	status.Summary = summary
	status.Error = message
	status.CompletedAt = &now

	if err := c.storage.RunStorage().Update(ctx, status); err != nil {
		c.logger.Error().Err(err).Str("run_id", status.ID).Msg("Failed to update run status")
	}
}

func runLabel(criteria models.SearchCriteria, origin models.DiscoveryOrigin) string {
	if origin == models.OriginManual {
		return fmt.Sprintf("manual scrape: %s", criteria.Query)
	}
	return fmt.Sprintf("scheduled scrape: %s", criteria.Query)
}
