package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/jobvault/aggregator/internal/clients/jobspy"
	"github.com/jobvault/aggregator/internal/config"
	"github.com/jobvault/aggregator/internal/domain/models"
	"github.com/jobvault/aggregator/internal/events"
	"github.com/jobvault/aggregator/internal/logger"
	"github.com/jobvault/aggregator/internal/metrics"
	"github.com/jobvault/aggregator/internal/repositories"
	"github.com/jobvault/aggregator/internal/services"
	log "github.com/sirupsen/logrus"
)

func buildProvider(cfg config.ProviderConfig) services.SearchProvider {

	client := jobspy.NewClient(cfg.BaseURL)
	if cfg.APIKey != "" {
		client.SetAPIKey(cfg.APIKey)
	}
	if cfg.MaxRequestsPerSecond > 0 {
		client.SetRateLimit(cfg.MaxRequestsPerSecond)
	}

	var provider services.SearchProvider = client
	if cfg.CacheTTL > 0 {
		provider = services.NewCachedProvider(provider, cfg.CacheTTL)
	}
	return provider
}

func subscribeRunEvents(bus EventBus.Bus, jobs *repositories.Jobs) {
	err := bus.Subscribe(events.RunCompletedTopic, func(event events.RunCompleted) {
		log.Infof("aggregation finished in %v: %v",
			event.Stats.Duration.Round(time.Millisecond), event.Stats.Summary())
		logNewPostings(jobs, event.Stats)
	})
	if err != nil {
		log.Fatalf("can't subscribe to run events: %v", err)
	}
}

func logNewPostings(jobs *repositories.Jobs, stats models.RunStats) {
	if stats.Inserted == 0 || !log.IsLevelEnabled(log.DebugLevel) {
		return
	}

	recent, err := jobs.GetRecent(context.Background(), stats.StartedAt, 50)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("can't list new postings: %v", err)
		return
	}
	for _, job := range recent {
		log.Debugf("new posting: %v", job.Key())
	}
}

func logStoreSize(ctx context.Context, jobs *repositories.Jobs) {
	count, err := jobs.Count(ctx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("can't count stored jobs: %v", err)
		return
	}
	log.Infof("store now holds %v jobs", count)
}

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		log.Fatalf("can't create db context: %v", err)
	}
	defer dbContext.Close()

	err = dbContext.Migrate()
	if err != nil {
		log.Fatalf("can't migrate db context: %v", err)
	}

	jobs := repositories.NewJobsRepository(dbContext.DB)
	backups := services.NewBackupManager(cfg.DB.ConnectionString, cfg.DB.BackupDir, cfg.DB.BackupsToKeep)

	bus := EventBus.New()
	subscribeRunEvents(bus, jobs)

	aggregator, err := services.NewAggregator(bus, buildProvider(cfg.Provider), jobs, backups, services.Options{
		BatchSize:     cfg.Scraper.BatchSize,
		RequestDelay:  cfg.Scraper.RequestDelay,
		ResultsWanted: cfg.Scraper.ResultsWanted,
		HoursOld:      cfg.Scraper.HoursOld,
	})
	if err != nil {
		log.Fatalf("can't create aggregator: %v", err)
	}

	tasks, err := services.BuildSearchTasks(cfg.Scraper)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeConfig).
			Fatalf("invalid search configuration: %v", err)
	}

	if cfg.Scraper.Schedule == "" {
		if _, err = aggregator.Run(ctx, tasks); err != nil {
			log.Fatalf("aggregation run failed: %v", err)
		}
		logStoreSize(ctx, jobs)
		return
	}

	metrics.StartMetricsServer(cfg.MetricsPort)

	runner, err := services.NewScheduledRunner(cfg.Scraper.Schedule, func() {
		if _, runErr := aggregator.Run(ctx, tasks); runErr != nil {
			log.Errorf("aggregation run failed: %v", runErr)
		}
		logStoreSize(ctx, jobs)
	})
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeConfig).
			Fatalf("can't create scheduled runner: %v", err)
	}
	runner.Start()

	<-ctx.Done()

	log.Info("Shutting down...")
	runner.Stop()
}
