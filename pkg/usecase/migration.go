package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/interfaces"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/service/transform"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/async"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/errutil"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/logging"
)

// DefaultBatchSize applies when a caller does not specify one
const DefaultBatchSize = 100

// MigrationUseCase drives the end-to-end ETL run: batch iteration,
// per-record transform and write, progress accounting, error collection and
// resumption bookkeeping.
//
// Failure policy: a single record's transform or write failure increments the
// failed counter and continues; a whole-batch vector write failure marks that
// batch's points failed and continues; a source fetch failure is fatal to the
// job. Validation skips are never errors.
type MigrationUseCase struct {
	source      interfaces.SourceReader
	repo        interfaces.Repository
	index       interfaces.VectorIndex
	jobs        interfaces.JobStore
	transformer *transform.Transformer
	batchDelay  time.Duration
}

// MigrationOptions configure one migration run
type MigrationOptions struct {
	ChannelName string
	BatchSize   int
	DateRange   *model.DateRange
	DryRun      bool

	// Limit stops the run after this many records have been processed.
	// Zero means no limit.
	Limit int64

	// ResumeFrom continues a previous run: only records with identifiers
	// strictly greater than the cursor are fetched
	ResumeFrom types.SourceID
}

// Run executes a migration synchronously and returns the final job snapshot.
// The returned job is valid even when err is non-nil; its status and error
// message describe what went wrong.
func (uc *MigrationUseCase) Run(ctx context.Context, opts MigrationOptions) (*model.MigrationJob, error) {
	job := model.NewMigrationJob(opts.ChannelName, opts.DryRun)
	if err := uc.jobs.Create(ctx, job); err != nil {
		return nil, goerr.Wrap(err, "failed to register migration job")
	}

	err := uc.run(ctx, job, opts)
	return job, err
}

// Start executes a migration in the background and returns the job ID
// immediately. Progress is observable through Status.
func (uc *MigrationUseCase) Start(ctx context.Context, opts MigrationOptions) (types.JobID, error) {
	job := model.NewMigrationJob(opts.ChannelName, opts.DryRun)
	if err := uc.jobs.Create(ctx, job); err != nil {
		return "", goerr.Wrap(err, "failed to register migration job")
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.run(ctx, job, opts)
	})

	return job.ID, nil
}

// Status returns a snapshot of a job
func (uc *MigrationUseCase) Status(ctx context.Context, id types.JobID) (*model.MigrationJob, error) {
	return uc.jobs.Get(ctx, id)
}

// HealthCheck verifies both ends of the pipeline
func (uc *MigrationUseCase) HealthCheck(ctx context.Context) map[string]bool {
	health := map[string]bool{
		"source": uc.source.Ping(ctx) == nil,
	}
	if uc.index != nil {
		health["vector_index"] = uc.index.HealthCheck(ctx)
	}
	return health
}

func (uc *MigrationUseCase) run(ctx context.Context, job *model.MigrationJob, opts MigrationOptions) error {
	logger := logging.From(ctx)

	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}

	total, err := uc.source.Count(ctx, opts.DateRange)
	if err != nil {
		return uc.fail(ctx, job, nil, goerr.Wrap(err, "failed to count source records"))
	}
	job.TotalRecords = total

	var channel *model.Channel
	channelID := types.NewChannelID() // placeholder for dry runs and vector-only setups
	if uc.repo != nil && !opts.DryRun {
		channel, err = uc.ensureChannel(ctx, opts.ChannelName)
		if err != nil {
			return uc.fail(ctx, job, nil, goerr.Wrap(err, "failed to ensure target channel"))
		}
		channelID = channel.ID
	}

	job.Status = types.JobStatusRunning
	if err := uc.jobs.Update(ctx, job); err != nil {
		return uc.fail(ctx, job, channel, goerr.Wrap(err, "failed to persist job state"))
	}

	logger.Info("Migration started",
		"job_id", job.ID,
		"channel", opts.ChannelName,
		"total", total,
		"batch_size", opts.BatchSize,
		"dry_run", opts.DryRun)

	cursor := opts.ResumeFrom
	for {
		if err := ctx.Err(); err != nil {
			return uc.fail(ctx, job, channel, goerr.Wrap(err, "migration cancelled"))
		}
		if opts.Limit > 0 && job.ProcessedRecords >= opts.Limit {
			logger.Info("Record limit reached", "job_id", job.ID, "limit", opts.Limit)
			break
		}

		// Never fetch past the record limit: the cursor advances to the last
		// fetched record, so a fetched-but-unprocessed tail would be lost to
		// any later resume from LastSourceID.
		fetchSize := opts.BatchSize
		if opts.Limit > 0 {
			if remaining := opts.Limit - job.ProcessedRecords; remaining < int64(fetchSize) {
				fetchSize = int(remaining)
			}
		}

		batch, err := uc.source.FetchBatch(ctx, fetchSize, cursor, opts.DateRange)
		if err != nil {
			// Source connectivity loss is unrecoverable: prior progress stays
			// recorded, no further batches are attempted.
			return uc.fail(ctx, job, channel, goerr.Wrap(err, "failed to fetch source batch",
				goerr.V("cursor", cursor)))
		}
		if len(batch) == 0 {
			break
		}

		uc.processBatch(ctx, job, batch, channelID, opts)

		// The cursor advances to the last record of the batch regardless of
		// per-record outcomes; skipped and failed records are never refetched.
		cursor = batch[len(batch)-1].ID
		job.LastSourceID = cursor

		if err := uc.jobs.Update(ctx, job); err != nil {
			return uc.fail(ctx, job, channel, goerr.Wrap(err, "failed to persist job state"))
		}

		select {
		case <-ctx.Done():
			return uc.fail(ctx, job, channel, goerr.Wrap(ctx.Err(), "migration cancelled"))
		case <-time.After(uc.batchDelay):
		}
	}

	job.Complete()
	if channel != nil {
		if err := uc.repo.Channel().UpdateStatus(ctx, channel.ID, types.ChannelStatusCompleted); err != nil {
			logger.Warn("Failed to mark channel completed", "channel_id", channel.ID, "error", err.Error())
		}
	}
	if err := uc.jobs.Update(ctx, job); err != nil {
		return goerr.Wrap(err, "failed to persist final job state")
	}

	logger.Info("Migration completed",
		"job_id", job.ID,
		"processed", job.ProcessedRecords,
		"skipped", job.SkippedRecords,
		"failed", job.FailedRecords)

	return nil
}

// processBatch handles one batch record by record. Only counters and the
// error list change here; cursor advancement and job persistence belong to
// the caller.
func (uc *MigrationUseCase) processBatch(ctx context.Context, job *model.MigrationJob, batch []*model.SourceRecord, channelID types.ChannelID, opts MigrationOptions) {
	logger := logging.From(ctx)

	var points []*model.VectorPoint
	for _, record := range batch {
		job.ProcessedRecords++

		result := uc.transformer.ToArticle(record, channelID)
		if result.Skipped {
			job.SkippedRecords++
			logger.Debug("Record skipped by validation",
				"source_id", record.ID,
				"issues", result.Issues)
			continue
		}

		if uc.repo != nil && !opts.DryRun {
			if _, err := uc.repo.Article().Create(ctx, result.Article); err != nil {
				job.FailedRecords++
				job.AppendError(fmt.Sprintf("insert %s: %s", record.ID, err.Error()))
				logger.Warn("Article insert failed", "source_id", record.ID, "error", err.Error())
				continue
			}
		}

		if uc.index != nil {
			if point := uc.transformer.ToVectorPoint(record, channelID); point != nil {
				points = append(points, point)
			}
		}
	}

	if uc.index != nil && !opts.DryRun && len(points) > 0 {
		stored, err := uc.index.UpsertBatch(ctx, points)
		if err != nil {
			// Whole-batch write failure: every point of this batch counts as
			// failed, then the loop continues with the next batch.
			job.FailedRecords += int64(len(points))
			job.AppendError(fmt.Sprintf("vector upsert of %d points: %s", len(points), err.Error()))
			logger.Warn("Vector batch upsert failed", "count", len(points), "error", err.Error())
		} else if stored < len(points) {
			logger.Warn("Some points were not stored", "requested", len(points), "stored", stored)
		}
	}
}

// ensureChannel looks the import channel up by name and creates it when
// absent. Idempotent across runs; the channel moves to in_progress for the
// duration of the job.
func (uc *MigrationUseCase) ensureChannel(ctx context.Context, name string) (*model.Channel, error) {
	channel, err := uc.repo.Channel().GetByName(ctx, name)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return nil, err
		}
		channel, err = uc.repo.Channel().Create(ctx, model.NewChannel(name))
		if err != nil {
			return nil, err
		}
	}

	if err := uc.repo.Channel().UpdateStatus(ctx, channel.ID, types.ChannelStatusInProgress); err != nil {
		return nil, err
	}
	channel.Status = types.ChannelStatusInProgress

	return channel, nil
}

// fail finalizes the job as failed, keeps partial progress, and reports the
// error. The original error is returned for the caller.
func (uc *MigrationUseCase) fail(ctx context.Context, job *model.MigrationJob, channel *model.Channel, err error) error {
	job.Fail(err.Error())
	if channel != nil {
		if updateErr := uc.repo.Channel().UpdateStatus(ctx, channel.ID, types.ChannelStatusFailed); updateErr != nil {
			logging.From(ctx).Warn("Failed to mark channel failed",
				"channel_id", channel.ID, "error", updateErr.Error())
		}
	}
	if updateErr := uc.jobs.Update(ctx, job); updateErr != nil {
		logging.From(ctx).Error("Failed to persist failed job state",
			"job_id", job.ID, "error", updateErr.Error())
	}
	return errutil.Handle(ctx, err, "migration job failed")
}
