package services

import (
	"context"

	"github.com/jobvault/aggregator/internal/domain/models"
	"github.com/jobvault/aggregator/internal/logger"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type jobWriter interface {
	InsertBatch(ctx context.Context, jobs []models.Job) error
	Insert(ctx context.Context, job *models.Job) error
	Ping(ctx context.Context) error
}

// BatchWriter buffers deduplicated jobs and persists them in transactional
// batches.
type BatchWriter struct {
	repo      jobWriter
	stats     *models.RunStats
	batchSize int
	buffer    []models.Job
}

func NewBatchWriter(repo jobWriter, batchSize int, stats *models.RunStats) *BatchWriter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BatchWriter{
		repo:      repo,
		stats:     stats,
		batchSize: batchSize,
		buffer:    make([]models.Job, 0, batchSize),
	}
}

// Stage adds a job to the buffer and flushes automatically once the buffer
// reaches the configured batch size.
func (w *BatchWriter) Stage(ctx context.Context, job models.Job) error {
	w.buffer = append(w.buffer, job)
	if len(w.buffer) >= w.batchSize {
		return w.Flush(ctx)
	}
	return nil
}

// Buffered returns the number of staged, not yet flushed jobs.
func (w *BatchWriter) Buffered() int {
	return len(w.buffer)
}

// Flush writes the buffered jobs in one transaction. When the bulk insert
// fails, the records are retried one by one so a single conflicting row does
// not throw away the rest of the batch. The buffer is cleared in every case;
// the returned error is non-nil only when the store itself became unusable.
func (w *BatchWriter) Flush(ctx context.Context) error {

	if len(w.buffer) == 0 {
		return nil
	}

	batch := w.buffer
	w.buffer = make([]models.Job, 0, w.batchSize)

	err := w.repo.InsertBatch(ctx, batch)
	if err == nil {
		w.stats.Inserted += len(batch)
		log.Infof("saved batch of %v jobs", len(batch))
		return nil
	}

	log.Warnf("batch insert of %v jobs failed, retrying records individually: %v", len(batch), err)
	return w.flushIndividually(ctx, batch)
}

func (w *BatchWriter) flushIndividually(ctx context.Context, batch []models.Job) error {

	failed := 0
	for i := range batch {
		err := w.repo.Insert(ctx, &batch[i])
		switch {
		case err == nil:
			w.stats.Inserted++
		case errors.Is(err, models.ErrDuplicateJob):
			w.stats.DuplicateInStore++
			log.Debugf("skipped already stored job %v", batch[i].Key())
		default:
			failed++
			w.stats.WriteFailed++
			log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
				Errorf("failed to insert job %v: %v", batch[i].Key(), err)
		}
	}

	if failed == len(batch) {
		if err := w.repo.Ping(ctx); err != nil {
			return errors.Wrap(err, "store is unusable after failed flush")
		}
	}

	return nil
}
