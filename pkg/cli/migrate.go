package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/olucvolkan/haberai-mvp/pkg/cli/config"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/repository/memory"
	"github.com/olucvolkan/haberai-mvp/pkg/service/embedding"
	"github.com/olucvolkan/haberai-mvp/pkg/usecase"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/logging"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/safe"
)

func cmdMigrate() *cli.Command {
	var channelName string
	var dryRun bool
	var dateFrom string
	var dateTo string
	var limit int64
	var resumeFrom string
	var mongoCfg config.Mongo
	var repoCfg config.Repository
	var qdrantCfg config.Qdrant
	var openaiCfg config.OpenAI
	var pipelineCfg config.Pipeline

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "channel",
			Usage:       "Channel name the migrated articles belong to",
			Required:    true,
			Sources:     cli.EnvVars("HABERAI_CHANNEL"),
			Destination: &channelName,
		},
		&cli.BoolFlag{
			Name:        "dry-run",
			Usage:       "Run the pipeline without writing to the relational store or vector index",
			Destination: &dryRun,
		},
		&cli.StringFlag{
			Name:        "date-from",
			Usage:       "Only migrate records published at or after this date (RFC 3339 or YYYY-MM-DD)",
			Destination: &dateFrom,
		},
		&cli.StringFlag{
			Name:        "date-to",
			Usage:       "Only migrate records published at or before this date (RFC 3339 or YYYY-MM-DD)",
			Destination: &dateTo,
		},
		&cli.Int64Flag{
			Name:        "limit",
			Usage:       "Stop after examining this many records (0 means no limit)",
			Destination: &limit,
		},
		&cli.StringFlag{
			Name:        "resume-from",
			Usage:       "Source record ID to resume after (exclusive)",
			Destination: &resumeFrom,
		},
	}
	flags = append(flags, mongoCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, qdrantCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Run a migration job to completion",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			transformer, err := pipelineCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure pipeline")
			}
			mode, err := pipelineCfg.ValidationMode()
			if err != nil {
				return err
			}

			source, err := mongoCfg.Configure(ctx, mode)
			if err != nil {
				return goerr.Wrap(err, "failed to configure source store")
			}
			defer func() {
				if err := source.Close(ctx); err != nil {
					logging.Default().Error("failed to close source store", "error", err.Error())
				}
			}()

			ucOpts := []usecase.Option{
				usecase.WithBatchDelay(pipelineCfg.BatchDelay()),
			}

			// Destination stores are not touched in a dry run, so skip
			// connecting to them entirely.
			if !dryRun {
				repo, err := repoCfg.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to initialize repository")
				}
				defer safe.Close(ctx, repo)
				ucOpts = append(ucOpts, usecase.WithRepository(repo))

				llmClient, err := openaiCfg.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to configure OpenAI client")
				}
				embedOpts := []embedding.Option{
					embedding.WithDimension(qdrantCfg.Dimension()),
				}
				if llmClient != nil {
					embedOpts = append(embedOpts, embedding.WithLLM(llmClient))
				} else {
					logging.Default().Info("OpenAI API key not configured, using deterministic fallback embeddings")
				}

				index, err := qdrantCfg.Configure(ctx, embedding.New(embedOpts...))
				if err != nil {
					return goerr.Wrap(err, "failed to configure vector index")
				}
				defer safe.Close(ctx, index)
				ucOpts = append(ucOpts, usecase.WithVectorIndex(index))
			}

			uc := usecase.New(source, memory.NewJobStore(), transformer, ucOpts...)

			var dateRange *model.DateRange
			if dateFrom != "" || dateTo != "" {
				dateRange = &model.DateRange{}
				if dateFrom != "" {
					t, err := parseDate(dateFrom)
					if err != nil {
						return goerr.Wrap(err, "invalid date-from", goerr.V("value", dateFrom))
					}
					dateRange.From = &t
				}
				if dateTo != "" {
					t, err := parseDate(dateTo)
					if err != nil {
						return goerr.Wrap(err, "invalid date-to", goerr.V("value", dateTo))
					}
					dateRange.To = &t
				}
			}

			job, runErr := uc.Migration.Run(ctx, usecase.MigrationOptions{
				ChannelName: channelName,
				BatchSize:   pipelineCfg.BatchSize(),
				DateRange:   dateRange,
				DryRun:      dryRun,
				Limit:       limit,
				ResumeFrom:  types.SourceID(resumeFrom),
			})
			if job != nil {
				printJobSummary(job)
			}
			return runErr
		},
	}
}

// parseDate accepts RFC 3339 timestamps and plain dates
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func printJobSummary(job *model.MigrationJob) {
	statusColor := color.New(color.FgGreen)
	switch job.Status {
	case types.JobStatusFailed:
		statusColor = color.New(color.FgRed)
	case types.JobStatusRunning, types.JobStatusPending:
		statusColor = color.New(color.FgYellow)
	}

	fmt.Println()
	fmt.Printf("Job:       %s\n", job.ID)
	fmt.Printf("Status:    %s\n", statusColor.Sprint(job.Status))
	fmt.Printf("Channel:   %s\n", job.ChannelName)
	if job.DryRun {
		fmt.Printf("Mode:      %s\n", color.YellowString("dry run"))
	}
	fmt.Printf("Total:     %d\n", job.TotalRecords)
	fmt.Printf("Processed: %d\n", job.ProcessedRecords)
	fmt.Printf("Skipped:   %d\n", job.SkippedRecords)
	fmt.Printf("Failed:    %d\n", job.FailedRecords)
	if job.LastSourceID != "" {
		fmt.Printf("Cursor:    %s\n", job.LastSourceID)
	}
	if job.ErrorMessage != "" {
		fmt.Printf("Error:     %s\n", color.RedString(job.ErrorMessage))
	}
	for _, e := range job.Errors {
		fmt.Printf("  - %s\n", e)
	}
}
