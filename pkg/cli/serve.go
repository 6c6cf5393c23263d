package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/olucvolkan/haberai-mvp/pkg/cli/config"
	httpctrl "github.com/olucvolkan/haberai-mvp/pkg/controller/http"
	"github.com/olucvolkan/haberai-mvp/pkg/repository/memory"
	"github.com/olucvolkan/haberai-mvp/pkg/service/embedding"
	"github.com/olucvolkan/haberai-mvp/pkg/usecase"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/logging"
	"github.com/olucvolkan/haberai-mvp/pkg/utils/safe"
)

func cmdServe() *cli.Command {
	var addr string
	var mongoCfg config.Mongo
	var repoCfg config.Repository
	var qdrantCfg config.Qdrant
	var openaiCfg config.OpenAI
	var pipelineCfg config.Pipeline

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("HABERAI_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, mongoCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, qdrantCfg.Flags()...)
	flags = append(flags, openaiCfg.Flags()...)
	flags = append(flags, pipelineCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the HTTP job control server",
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

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

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
			embedder := embedding.New(embedOpts...)

			index, err := qdrantCfg.Configure(ctx, embedder)
			if err != nil {
				return goerr.Wrap(err, "failed to configure vector index")
			}
			defer safe.Close(ctx, index)

			uc := usecase.New(source, memory.NewJobStore(), transformer,
				usecase.WithRepository(repo),
				usecase.WithVectorIndex(index),
				usecase.WithBatchDelay(pipelineCfg.BatchDelay()),
			)

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
