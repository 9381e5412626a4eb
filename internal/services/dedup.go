package services

import (
	"context"

	"github.com/jobvault/aggregator/internal/domain/models"
	"github.com/jobvault/aggregator/internal/logger"
	log "github.com/sirupsen/logrus"
)

type keyFinder interface {
	ExistingKeys(ctx context.Context, keys []models.JobKey) (map[models.JobKey]struct{}, error)
}

// DedupIndex remembers which job keys were already accepted during the
// current run and checks new candidates against the persisted store in
// batched queries. It lives exactly as long as one run.
type DedupIndex struct {
	repo  keyFinder
	stats *models.RunStats
	seen  map[models.JobKey]struct{}
}

func NewDedupIndex(repo keyFinder, stats *models.RunStats) *DedupIndex {
	return &DedupIndex{
		repo:  repo,
		stats: stats,
		seen:  make(map[models.JobKey]struct{}),
	}
}

// FilterNew returns the jobs whose keys were not seen before, in input
// order, first occurrence winning. Repeats within the run count as
// duplicates in run, matches against a stored row as duplicates in store.
func (d *DedupIndex) FilterNew(ctx context.Context, jobs []models.Job) []models.Job {

	if len(jobs) == 0 {
		return nil
	}

	inStore := d.lookupStore(ctx, jobs)

	fresh := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		key := job.Key()

		if _, ok := d.seen[key]; ok {
			d.stats.DuplicateInRun++
			continue
		}
		d.seen[key] = struct{}{}

		if _, ok := inStore[key]; ok {
			d.stats.DuplicateInStore++
			continue
		}

		fresh = append(fresh, job)
	}

	return fresh
}

// lookupStore queries the store once for all keys not yet seen in this run.
// A failed lookup is not fatal: it is logged and treated as "nothing found",
// the uniqueness constraint catches the leftovers at write time.
func (d *DedupIndex) lookupStore(ctx context.Context, jobs []models.Job) map[models.JobKey]struct{} {

	requested := make(map[models.JobKey]struct{}, len(jobs))
	var unknown []models.JobKey

	for _, job := range jobs {
		key := job.Key()
		if _, ok := d.seen[key]; ok {
			continue
		}
		if _, ok := requested[key]; ok {
			continue
		}
		requested[key] = struct{}{}
		unknown = append(unknown, key)
	}

	if len(unknown) == 0 {
		return map[models.JobKey]struct{}{}
	}

	inStore, err := d.repo.ExistingKeys(ctx, unknown)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("failed to check stored job keys, falling back to uniqueness constraint: %v", err)
		return map[models.JobKey]struct{}{}
	}

	return inStore
}
