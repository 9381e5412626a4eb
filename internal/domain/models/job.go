package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrDuplicateJob is reported by the store when an insert violates the
// uniqueness of (title, company, location).
var ErrDuplicateJob = errors.New("job already exists")

// Job is a canonical, persisted job posting. Rows are only ever created by
// the batch writer; they are never updated or deleted by the aggregator.
//
// The *Key columns hold the normalized dedup key parts. They are filled from
// KeyOf on insert and carry the uniqueness index, so the store compares keys
// with the exact same normalization as the in-memory dedup layer. SQLite's
// own LOWER() folds ASCII only and cannot be trusted with them.
type Job struct {
	ID          int `gorm:"primaryKey"`
	Title       string
	Company     string
	Location    string
	Description string
	CreatedAt   time.Time

	TitleKey    string
	CompanyKey  string
	LocationKey string
}

func (j Job) Key() JobKey {
	return KeyOf(j.Title, j.Company, j.Location)
}

// BeforeCreate fills the normalized key columns before the row is written.
func (j *Job) BeforeCreate(*gorm.DB) error {
	key := j.Key()
	j.TitleKey = key.Title
	j.CompanyKey = key.Company
	j.LocationKey = key.Location
	return nil
}

// JobKey is the normalized (title, company, location) tuple used to detect
// duplicate postings. Two jobs with equal keys describe the same posting
// regardless of letter case or spacing differences.
type JobKey struct {
	Title    string
	Company  string
	Location string
}

func KeyOf(title, company, location string) JobKey {
	return JobKey{
		Title:    normalizeKeyPart(title),
		Company:  normalizeKeyPart(company),
		Location: normalizeKeyPart(location),
	}
}

func (k JobKey) String() string {
	return k.Title + " @ " + k.Company + " (" + k.Location + ")"
}

// normalizeKeyPart lowercases and collapses all whitespace runs so that
// near-identical spellings of the same posting produce one key.
func normalizeKeyPart(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
