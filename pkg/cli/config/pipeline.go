package config

import (
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/olucvolkan/haberai-mvp/pkg/domain/types"
	"github.com/olucvolkan/haberai-mvp/pkg/service/normalize"
	"github.com/olucvolkan/haberai-mvp/pkg/service/transform"
)

// Pipeline holds CLI flags shared by every command that runs the
// transformation pipeline: validation policy, categorization rules and batch
// pacing.
type Pipeline struct {
	validationMode string
	rulesPath      string
	batchSize      int
	batchDelay     time.Duration
}

// Flags returns CLI flags for pipeline configuration
func (p *Pipeline) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "validation-mode",
			Usage:       "Content validation policy (strict or permissive)",
			Value:       types.ValidationModeStrict.String(),
			Sources:     cli.EnvVars("HABERAI_VALIDATION_MODE"),
			Destination: &p.validationMode,
		},
		&cli.StringFlag{
			Name:        "category-rules",
			Usage:       "Path to a TOML file with categorization rules (built-in rules when unset)",
			Sources:     cli.EnvVars("HABERAI_CATEGORY_RULES"),
			Destination: &p.rulesPath,
		},
		&cli.IntFlag{
			Name:        "batch-size",
			Usage:       "Number of source records fetched per batch",
			Value:       100,
			Sources:     cli.EnvVars("HABERAI_BATCH_SIZE"),
			Destination: &p.batchSize,
		},
		&cli.DurationFlag{
			Name:        "batch-delay",
			Usage:       "Pause between batches to limit source load",
			Value:       100 * time.Millisecond,
			Sources:     cli.EnvVars("HABERAI_BATCH_DELAY"),
			Destination: &p.batchDelay,
		},
	}
}

// LogAttrs returns log attributes for the pipeline configuration
func (p *Pipeline) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("validation_mode", p.validationMode),
		slog.String("category_rules", p.rulesPath),
		slog.Int("batch_size", p.batchSize),
		slog.Duration("batch_delay", p.batchDelay),
	}
}

// ValidationMode parses the configured validation mode
func (p *Pipeline) ValidationMode() (types.ValidationMode, error) {
	return types.ParseValidationMode(p.validationMode)
}

// BatchSize returns the configured batch size
func (p *Pipeline) BatchSize() int {
	return p.batchSize
}

// BatchDelay returns the configured pause between batches
func (p *Pipeline) BatchDelay() time.Duration {
	return p.batchDelay
}

// Configure builds the transformer from the configured policy and rules
func (p *Pipeline) Configure() (*transform.Transformer, error) {
	mode, err := p.ValidationMode()
	if err != nil {
		return nil, goerr.Wrap(err, "invalid validation mode", goerr.V("mode", p.validationMode))
	}

	opts := []transform.Option{}
	if p.rulesPath != "" {
		rules, err := transform.LoadRules(p.rulesPath)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load categorization rules", goerr.V("path", p.rulesPath))
		}
		opts = append(opts, transform.WithCategorizer(transform.NewCategorizerWithRules(rules)))
	}

	return transform.New(normalize.PolicyFor(mode), opts...), nil
}
