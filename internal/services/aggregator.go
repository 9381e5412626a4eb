package services

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/jobvault/aggregator/internal/clients/jobspy"
	"github.com/jobvault/aggregator/internal/domain/models"
	"github.com/jobvault/aggregator/internal/events"
	"github.com/jobvault/aggregator/internal/logger"
	"github.com/jobvault/aggregator/internal/metrics"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// DefaultBatchSize is the store flush size used when none is configured.
const DefaultBatchSize = 1000

// SearchProvider executes one search against the external provider.
type SearchProvider interface {
	Search(ctx context.Context, request jobspy.SearchRequest) ([]jobspy.RawJob, error)
}

type jobRepository interface {
	ExistingKeys(ctx context.Context, keys []models.JobKey) (map[models.JobKey]struct{}, error)
	InsertBatch(ctx context.Context, jobs []models.Job) error
	Insert(ctx context.Context, job *models.Job) error
	Ping(ctx context.Context) error
}

type backupService interface {
	Create() (string, error)
}

// Options tune a single aggregation run.
type Options struct {
	BatchSize     int
	RequestDelay  time.Duration
	ResultsWanted int
	HoursOld      int
}

// Aggregator drives the ingestion pipeline. Every configured search task is
// sent to the provider and its results flow through normalization,
// deduplication and batched persistence. Tasks run strictly one after
// another; a failing task never ends the run, only a store that stops
// accepting writes does.
type Aggregator struct {
	bus        EventBus.Bus
	provider   SearchProvider
	jobs       jobRepository
	backups    backupService
	normalizer *Normalizer
	opts       Options
	state      runState
}

func NewAggregator(bus EventBus.Bus, provider SearchProvider, jobs jobRepository,
	backups backupService, opts Options) (*Aggregator, error) {

	if provider == nil {
		return nil, errors.New("search provider is required")
	}
	if jobs == nil {
		return nil, errors.New("job repository is required")
	}
	if backups == nil {
		return nil, errors.New("backup service is required")
	}

	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.ResultsWanted <= 0 {
		opts.ResultsWanted = jobspy.DefaultResultsWanted
	}
	if opts.HoursOld < 0 {
		opts.HoursOld = jobspy.DefaultHoursOld
	}

	return &Aggregator{
		bus:        bus,
		provider:   provider,
		jobs:       jobs,
		backups:    backups,
		normalizer: NewNormalizer(),
		opts:       opts,
	}, nil
}

// Run executes one full aggregation pass over the given tasks. The returned
// statistics are complete even when every task failed; the error is non-nil
// only for fatal failures, a missing backup or an unusable store.
func (a *Aggregator) Run(ctx context.Context, tasks []models.SearchTask) (*models.RunStats, error) {

	a.state = stateInit
	stats := models.NewRunStats()
	log.Infof("starting aggregation run over %v tasks", len(tasks))

	if _, err := a.backups.Create(); err != nil {
		a.transition(stateFailed)
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeBackup).
			Errorf("refusing to ingest without a backup: %v", err)
		return stats, errors.Wrap(err, "backup failed")
	}
	a.transition(stateBackupDone)

	dedup := NewDedupIndex(a.jobs, stats)
	writer := NewBatchWriter(a.jobs, a.opts.BatchSize, stats)

	var fatal error
	for _, task := range tasks {
		if ctx.Err() != nil {
			log.Warnf("run interrupted, %v of %v tasks attempted", stats.TasksAttempted, len(tasks))
			break
		}

		if fatal = a.runTask(ctx, task, dedup, writer, stats); fatal != nil {
			break
		}

		a.waitBetweenTasks(ctx)
	}

	a.transition(stateFinalizing)

	if fatal == nil {
		// a fresh context lets buffered rows survive an interrupted run
		fatal = writer.Flush(context.Background())
	}

	stats.Duration = time.Since(stats.StartedAt)
	a.observeRun(stats)
	a.bus.Publish(events.RunCompletedTopic, events.RunCompleted{Stats: *stats})

	if fatal != nil {
		a.transition(stateFailed)
		return stats, fatal
	}

	a.transition(stateDone)
	return stats, nil
}

// runTask returns a non-nil error only when the store became unusable.
func (a *Aggregator) runTask(ctx context.Context, task models.SearchTask,
	dedup *DedupIndex, writer *BatchWriter, stats *models.RunStats) error {

	a.transition(stateSearching)
	stats.TasksAttempted++
	log.Infof("searching %v", task)

	start := time.Now()
	results, err := a.provider.Search(ctx, a.searchRequest(task))
	metrics.SearchDuration.WithLabelValues(string(task.Site)).Observe(time.Since(start).Seconds())

	if err != nil {
		stats.TasksFailed++
		metrics.TasksCounter.WithLabelValues("failed").Inc()
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeProvider).
			Errorf("search failed for %v: %v", task, err)
		a.bus.Publish(events.TaskCompletedTopic, events.TaskCompleted{Task: task, Failed: true})
		return nil
	}

	a.transition(stateIngesting)
	stats.RecordsFetched += len(results)
	log.Infof("fetched %v records for %v", len(results), task)

	if err = a.ingest(ctx, results, dedup, writer, stats); err != nil {
		return err
	}

	metrics.TasksCounter.WithLabelValues("completed").Inc()
	a.bus.Publish(events.TaskCompletedTopic, events.TaskCompleted{Task: task, Fetched: len(results)})
	return nil
}

func (a *Aggregator) searchRequest(task models.SearchTask) jobspy.SearchRequest {
	return jobspy.SearchRequest{
		Site:             string(task.Site),
		SearchTerm:       task.Term,
		GoogleSearchTerm: task.GoogleTerm,
		Location:         task.Location.String(),
		CountryIndeed:    task.CountryCode,
		ResultsWanted:    a.opts.ResultsWanted,
		HoursOld:         a.opts.HoursOld,
	}
}

func (a *Aggregator) ingest(ctx context.Context, results []jobspy.RawJob,
	dedup *DedupIndex, writer *BatchWriter, stats *models.RunStats) error {

	jobs := make([]models.Job, 0, len(results))
	for _, raw := range results {
		job, reason := a.normalizer.Normalize(raw)
		if job == nil {
			stats.Reject(reason)
			log.Debugf("rejected record: %v", reason)
			continue
		}
		jobs = append(jobs, *job)
	}

	for _, job := range dedup.FilterNew(ctx, jobs) {
		if err := writer.Stage(ctx, job); err != nil {
			return err
		}
	}

	return nil
}

// waitBetweenTasks applies the configured delay after every task, successful
// or not, to stay friendly to the platforms.
func (a *Aggregator) waitBetweenTasks(ctx context.Context) {
	if a.opts.RequestDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(a.opts.RequestDelay):
	}
}

func (a *Aggregator) observeRun(stats *models.RunStats) {
	metrics.RunDuration.Observe(stats.Duration.Seconds())
	metrics.RecordsCounter.WithLabelValues("inserted").Add(float64(stats.Inserted))
	metrics.RecordsCounter.WithLabelValues("duplicate_in_run").Add(float64(stats.DuplicateInRun))
	metrics.RecordsCounter.WithLabelValues("duplicate_in_store").Add(float64(stats.DuplicateInStore))
	metrics.RecordsCounter.WithLabelValues("rejected").Add(float64(stats.RejectedTotal()))
	metrics.RecordsCounter.WithLabelValues("write_failed").Add(float64(stats.WriteFailed))
}

func (a *Aggregator) transition(next runState) {
	if !a.state.canTransitionTo(next) {
		log.Errorf("illegal run state transition %v -> %v", a.state, next)
	} else {
		log.Debugf("run state %v -> %v", a.state, next)
	}
	a.state = next
}
