package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/interfaces"
)

// Service is the minute-tick trigger producer. Every tick it loads the
// active schedules, evaluates which users are due, and publishes one scrape
// trigger event per due user. It never executes runs itself.
type Service struct {
	eventService interfaces.EventService
	schedules    interfaces.ScheduleStorage
	cron         *cron.Cron
	logger       arbor.ILogger
	running      bool
}

// NewService creates the trigger producer.
func NewService(eventService interfaces.EventService, schedules interfaces.ScheduleStorage, logger arbor.ILogger) *Service {
	return &Service{
		eventService: eventService,
		schedules:    schedules,
		cron:         cron.New(),
		logger:       logger,
	}
}

// Start begins ticking on the given cron expression, defaulting to every
// minute.
func (s *Service) Start(cronExpr string) error {
	if s.running {
		return fmt.Errorf("scheduler already running")
	}
	if cronExpr == "" {
		cronExpr = "* * * * *"
	}

	if _, err := s.cron.AddFunc(cronExpr, s.tick); err != nil {
		return fmt.Errorf("failed to add cron entry: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info().Str("cron_expr", cronExpr).Msg("Scheduler started")
	return nil
}

// Stop halts the tick loop. Already-published triggers keep running.
func (s *Service) Stop() error {
	if !s.running {
		return nil
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info().Msg("Scheduler stopped")
	return nil
}

// tick evaluates schedules for the current minute and publishes triggers.
func (s *Service) tick() {
	ctx := context.Background()

	configs, err := s.schedules.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load schedules, skipping tick")
		return
	}

	due := DueUsers(time.Now(), configs)
	for _, userID := range due {
		event := interfaces.Event{
			Type:    interfaces.EventScrapeTriggered,
			Payload: interfaces.TriggerPayload{UserID: userID},
		}
		if err := s.eventService.Publish(ctx, event); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to publish scrape trigger")
		}
	}

	if len(due) > 0 {
		s.logger.Info().Int("triggered", len(due)).Msg("Scrape triggers published")
	}
}
