package model

import (
	"time"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
)

// MaxJobErrors caps the number of error messages kept on a job. Counters stay
// exact beyond the cap; only the message list stops growing.
const MaxJobErrors = 50

// MigrationJob is the orchestration state of one ETL run. It lives behind the
// JobStore interface; the orchestrator updates it after every batch so a
// status poll always sees consistent counters and the latest resumption
// cursor.
type MigrationJob struct {
	ID          types.JobID
	Status      types.JobStatus
	ChannelName string
	DryRun      bool

	TotalRecords     int64
	ProcessedRecords int64
	SkippedRecords   int64
	FailedRecords    int64

	Errors       []string
	ErrorMessage string // set when the job transitions to failed

	// LastSourceID is the resumption cursor: the identifier of the last record
	// of the most recently fetched batch, skipped and failed records included.
	LastSourceID types.SourceID

	StartedAt   time.Time
	CompletedAt *time.Time
}

// NewMigrationJob creates a pending job
func NewMigrationJob(channelName string, dryRun bool) *MigrationJob {
	return &MigrationJob{
		ID:          types.NewJobID(),
		Status:      types.JobStatusPending,
		ChannelName: channelName,
		DryRun:      dryRun,
		StartedAt:   time.Now().UTC(),
	}
}

// AppendError records a per-record failure message, bounded by MaxJobErrors
func (j *MigrationJob) AppendError(msg string) {
	if len(j.Errors) < MaxJobErrors {
		j.Errors = append(j.Errors, msg)
	}
}

// Complete marks the job as successfully finished
func (j *MigrationJob) Complete() {
	now := time.Now().UTC()
	j.Status = types.JobStatusCompleted
	j.CompletedAt = &now
}

// Fail marks the job as failed with an unrecoverable error message
func (j *MigrationJob) Fail(msg string) {
	now := time.Now().UTC()
	j.Status = types.JobStatusFailed
	j.ErrorMessage = msg
	j.CompletedAt = &now
}

// Clone returns a deep copy so stores can hand out snapshots safely
func (j *MigrationJob) Clone() *MigrationJob {
	copied := *j
	copied.Errors = append([]string(nil), j.Errors...)
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		copied.CompletedAt = &t
	}
	return &copied
}
