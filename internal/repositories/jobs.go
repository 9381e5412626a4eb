package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jobvault/aggregator/internal/domain/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// insertChunkSize keeps one INSERT statement well below SQLite's bind
// variable limit even for wide batches.
const insertChunkSize = 100

// keyChunkSize bounds how many dedup keys are matched per SELECT.
const keyChunkSize = 80

type Jobs struct {
	db *gorm.DB
}

func NewJobsRepository(db *gorm.DB) *Jobs {
	return &Jobs{db: db}
}

// InsertBatch writes all jobs in a single transaction. On any failure
// nothing is persisted and the whole batch is rolled back; a uniqueness
// violation is reported as models.ErrDuplicateJob.
func (j Jobs) InsertBatch(ctx context.Context, jobs []models.Job) error {
	if len(jobs) == 0 {
		return nil
	}

	err := j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(jobs, insertChunkSize).Error
	})
	return translateDuplicate(err)
}

// Insert writes a single job, reporting models.ErrDuplicateJob when the row
// collides with an already stored posting.
func (j Jobs) Insert(ctx context.Context, job *models.Job) error {
	return translateDuplicate(j.db.WithContext(ctx).Create(job).Error)
}

// ExistingKeys reports which of the given dedup keys already have a stored
// row. Keys are matched against the normalized key columns, in chunks rather
// than one query per record.
func (j Jobs) ExistingKeys(ctx context.Context, keys []models.JobKey) (map[models.JobKey]struct{}, error) {
	found := make(map[models.JobKey]struct{}, len(keys))
	if len(keys) == 0 {
		return found, nil
	}

	for _, chunk := range lo.Chunk(keys, keyChunkSize) {
		condition := strings.TrimSuffix(
			strings.Repeat("(title_key = ? AND company_key = ? AND location_key = ?) OR ", len(chunk)),
			" OR ")

		args := make([]any, 0, len(chunk)*3)
		for _, key := range chunk {
			args = append(args, key.Title, key.Company, key.Location)
		}

		var rows []models.Job
		err := j.db.WithContext(ctx).
			Select("title_key", "company_key", "location_key").
			Where(condition, args...).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			found[models.JobKey{
				Title:    row.TitleKey,
				Company:  row.CompanyKey,
				Location: row.LocationKey,
			}] = struct{}{}
		}
	}

	return found, nil
}

// GetRecent returns jobs created at or after the given time, newest first.
func (j Jobs) GetRecent(ctx context.Context, since time.Time, limit int) ([]models.Job, error) {
	var jobs []models.Job
	err := j.db.WithContext(ctx).
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

func (j Jobs) Count(ctx context.Context) (int64, error) {
	var count int64
	err := j.db.WithContext(ctx).Model(&models.Job{}).Count(&count).Error
	return count, err
}

// Ping verifies the underlying connection is still usable.
func (j Jobs) Ping(ctx context.Context) error {
	db, err := j.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func translateDuplicate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", models.ErrDuplicateJob, err)
	}
	return err
}
