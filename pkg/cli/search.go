package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/olucvolkan/haberai-mvp/pkg/cli/config"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/model"
	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/service/embedding"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/safe"
)

func cmdSearch() *cli.Command {
	var query string
	var limit int
	var threshold float64
	var channelID string
	var category string
	var qdrantCfg config.Qdrant
	var openaiCfg config.OpenAI

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "query",
			Aliases:     []string{"q"},
			Usage:       "Search query text",
			Required:    true,
			Destination: &query,
		},
		&cli.IntFlag{
			Name:        "limit",
			Usage:       "Maximum number of results",
			Value:       10,
			Destination: &limit,
		},
		&cli.FloatFlag{
			Name:        "score-threshold",
			Usage:       "Minimum similarity score (0 disables the cutoff)",
			Destination: &threshold,
		},
		&cli.StringFlag{
			Name:        "channel",
			Usage:       "Restrict results to a channel ID",
			Destination: &channelID,
		},
		&cli.StringFlag{
			Name:        "category",
			Usage:       "Restrict results to an event category",
			Destination: &category,
		},
	}
	flags = append(flags, qdrantCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)

	return &cli.Command{
		Name:  "search",
		Usage: "Search the article vector index",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			llmClient, err := openaiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure OpenAI client")
			}
			embedOpts := []embedding.Option{
				embedding.WithDimension(qdrantCfg.Dimension()),
			}
			if llmClient != nil {
				embedOpts = append(embedOpts, embedding.WithLLM(llmClient))
			}

			index, err := qdrantCfg.Configure(ctx, embedding.New(embedOpts...))
			if err != nil {
				return goerr.Wrap(err, "failed to configure vector index")
			}
			defer safe.Close(ctx, index)

			opts := model.SearchOptions{
				Limit:          limit,
				ScoreThreshold: float32(threshold),
			}
			if channelID != "" || category != "" {
				opts.Filter = &model.SearchFilter{
					ChannelID:     channelID,
					EventCategory: types.EventCategory(category),
				}
			}

			results, err := index.Search(ctx, query, opts)
			if err != nil {
				return goerr.Wrap(err, "search failed")
			}

			if len(results) == 0 {
				fmt.Println("No results")
				return nil
			}

			for i, r := range results {
				fmt.Printf("%s %s %s\n",
					color.CyanString("%2d.", i+1),
					color.New(color.Bold).Sprint(r.Payload.Title),
					color.HiBlackString("(score %.3f)", r.Score),
				)
				fmt.Printf("    %s", r.Payload.EventCategory)
				if r.Payload.PublishedAt != "" {
					fmt.Printf("  %s", r.Payload.PublishedAt)
				}
				if r.Payload.URL != "" {
					fmt.Printf("  %s", color.BlueString(r.Payload.URL))
				}
				fmt.Println()
				if r.Payload.Preview != "" {
					fmt.Printf("    %s\n", r.Payload.Preview)
				}
			}

			return nil
		},
	}
}
