package models

import (
	"fmt"
	"time"
)

// RejectReason classifies why a raw search record was dropped during
// normalization.
type RejectReason string

const (
	RejectMissingTitle    RejectReason = "missing_title"
	RejectMissingCompany  RejectReason = "missing_company"
	RejectMissingLocation RejectReason = "missing_location"
	RejectMalformedRecord RejectReason = "malformed_record"
)

// RunStats accumulates the counters of one aggregation run. The orchestrator
// shares a single instance with the dedup index and the batch writer for the
// lifetime of the run and reports it once at the end.
type RunStats struct {
	TasksAttempted   int
	TasksFailed      int
	RecordsFetched   int
	Rejected         map[RejectReason]int
	Inserted         int
	DuplicateInRun   int
	DuplicateInStore int
	WriteFailed      int
	StartedAt        time.Time
	Duration         time.Duration
}

func NewRunStats() *RunStats {
	return &RunStats{
		Rejected:  make(map[RejectReason]int),
		StartedAt: time.Now(),
	}
}

func (s *RunStats) Reject(reason RejectReason) {
	s.Rejected[reason]++
}

func (s *RunStats) RejectedTotal() int {
	total := 0
	for _, count := range s.Rejected {
		total += count
	}
	return total
}

func (s *RunStats) Summary() string {
	return fmt.Sprintf("tasks: %d attempted, %d failed; records: %d fetched, %d inserted, "+
		"%d duplicates in run, %d duplicates in store, %d rejected, %d write failures",
		s.TasksAttempted, s.TasksFailed, s.RecordsFetched, s.Inserted,
		s.DuplicateInRun, s.DuplicateInStore, s.RejectedTotal(), s.WriteFailed)
}
