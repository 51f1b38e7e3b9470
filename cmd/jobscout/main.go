package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/jobscout/jobscout/internal/common"
	"github.com/jobscout/jobscout/internal/interfaces"
	"github.com/jobscout/jobscout/internal/services/auth"
	"github.com/jobscout/jobscout/internal/services/browser"
	"github.com/jobscout/jobscout/internal/services/collect"
	"github.com/jobscout/jobscout/internal/services/enrich"
	"github.com/jobscout/jobscout/internal/services/events"
	"github.com/jobscout/jobscout/internal/services/extract"
	"github.com/jobscout/jobscout/internal/services/llm"
	"github.com/jobscout/jobscout/internal/services/runner"
	"github.com/jobscout/jobscout/internal/services/scheduler"
	"github.com/jobscout/jobscout/internal/storage/badger"
)

// configPaths is a custom flag type that allows multiple -config flags
type configPaths []string

func (c *configPaths) String() string {
	return fmt.Sprintf("%v", *c)
}

func (c *configPaths) Set(value string) error {
	*c = append(*c, value)
	return nil
}

var (
	configFiles  configPaths
	triggerUser  = flag.String("trigger", "", "Run one manual scrape for the given user id, then exit")
	showVersion  = flag.Bool("version", false, "Print version information")
	showVersionV = flag.Bool("v", false, "Print version information (shorthand)")
)

func init() {
	flag.Var(&configFiles, "config", "Configuration file path (can be specified multiple times, later files override earlier ones)")
	flag.Var(&configFiles, "c", "Configuration file path (shorthand)")
}

func main() {
	common.InstallCrashHandler("./logs")
	defer common.RecoverWithCrashFile()

	flag.Parse()

	if *showVersion || *showVersionV {
		fmt.Printf("JobScout version %s\n", common.GetVersion())
		os.Exit(0)
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("jobscout.toml"); err == nil {
			configFiles = append(configFiles, "jobscout.toml")
		} else if _, err := os.Stat("deployments/local/jobscout.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/jobscout.toml")
		}
	}

	// Startup order: config, logger, banner, storage, services.
	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		tempLogger := arbor.NewLogger()
		tempLogger.Fatal().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		os.Exit(1)
	}

	logger := common.InitLogger(config)
	common.PrintBanner(common.GetVersion())

	logger.Info().
		Strs("config_files", configFiles).
		Str("environment", config.Environment).
		Str("log_level", config.Logging.Level).
		Msg("Application configuration loaded")

	storageManager, err := badger.NewManager(logger, &config.Storage.Badger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize storage")
		os.Exit(1)
	}
	defer storageManager.Close()

	llmServices := llm.NewServices(config, storageManager.KeyValueStorage(), logger)
	defer llmServices.Close()

	browserManager := browser.NewManager(config.Browser, logger)
	defer browserManager.Shutdown()

	var extractor *extract.Service
	var enricher *enrich.Service
	if llmServices.Extraction != nil {
		extractor = extract.NewService(llmServices.Extraction, logger)
		enricher = enrich.NewService(browserManager, llmServices.Cleanup, config.Scraper, logger)
	}

	runService := runner.NewService(
		browserManager,
		auth.NewService(browserManager, logger, common.ParseDurationOr(config.Browser.SettleTime, 3*time.Second)),
		collect.NewService(browserManager, config.Scraper, logger),
		extractor,
		enricher,
		logger,
	)

	consumer := scheduler.NewConsumer(runService, storageManager, logger)

	// One-shot manual run.
	if *triggerUser != "" {
		if err := consumer.TriggerNow(context.Background(), *triggerUser); err != nil {
			logger.Fatal().Err(err).Str("user_id", *triggerUser).Msg("Manual scrape failed")
			os.Exit(1)
		}
		logger.Info().Str("user_id", *triggerUser).Msg("Manual scrape completed")
		return
	}

	eventService := events.NewService(logger)
	defer eventService.Close()

	if err := eventService.Subscribe(interfaces.EventScrapeTriggered, consumer.HandleTrigger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to subscribe trigger consumer")
		os.Exit(1)
	}

	schedulerService := scheduler.NewService(eventService, storageManager.ScheduleStorage(), logger)
	if config.Scheduler.Enabled {
		if err := schedulerService.Start(config.Scheduler.TickSchedule); err != nil {
			logger.Fatal().Err(err).Msg("Failed to start scheduler")
			os.Exit(1)
		}
	} else {
		logger.Warn().Msg("Scheduler disabled by configuration, no runs will trigger")
	}

	logger.Info().Msg("JobScout ready - Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info().Msg("Interrupt signal received, shutting down")

	if err := schedulerService.Stop(); err != nil {
		logger.Error().Err(err).Msg("Scheduler shutdown failed")
	}

	// Give in-flight browser work a moment before forcing sessions closed.
	time.Sleep(500 * time.Millisecond)
	if open := browserManager.OpenSessions(); open > 0 {
		logger.Warn().Int("open_sessions", open).Msg("Closing remaining browser sessions")
	}

	logger.Info().Msg("JobScout stopped")
}
