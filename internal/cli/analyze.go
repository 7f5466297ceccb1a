package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depaudit/pkg/observability"
	"github.com/matzehuels/depaudit/pkg/override"
	"github.com/matzehuels/depaudit/pkg/pipeline"
	"github.com/matzehuels/depaudit/pkg/report"
)

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "analyze [repository-url...]",
		Short: "Analyze repositories and write dependency reports",
		Long: `Analyze clones every repository (from the arguments, or the repository
list file when none are given), extracts dependencies, resolves their
licenses and documentation URLs and writes the reports to the output
directory.

Entries of the repository list may be https or ssh git URLs, file:// URLs
or local directories. Blank lines and lines starting with '#' are ignored.

Repositories that fail to clone are listed at the end; the reports cover
every repository that succeeded.`,
		Example: `  # Analyze the repositories listed in repos.txt
  depaudit analyze

  # Analyze two repositories with a custom mapping file
  depaudit analyze --mapping curated.csv https://github.com/pallets/flask https://github.com/expressjs/express

  # Raise the Python lookup budget and skip infrastructure detection
  depaudit analyze --budget python=100 --skip-infra`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				return err
			}
			return c.runAnalyze(cmd.Context(), cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default ./depaudit.yaml if present)")
	flags.String("repos", pipeline.DefaultReposFile, "repository list file")
	flags.String("mapping", override.DefaultFile, "curated dependency mapping CSV")
	flags.StringP("output", "o", defaultOutputDir, "directory for the generated reports")
	flags.IntP("concurrency", "j", pipeline.DefaultConcurrency, "repositories analyzed at once")
	flags.Int("remote-concurrency", pipeline.DefaultRemoteConcurrency, "registry requests in flight across the run")
	flags.Duration("request-timeout", pipeline.DefaultRequestTimeout, "timeout of a single registry request")
	flags.StringToInt("budget", nil, "per-repository lookup budget by ecosystem (e.g. python=50,java=10)")
	flags.Bool("import-hints", false, "report Java import heuristics separately")
	flags.Bool("skip-infra", false, "skip infrastructure detection and reports")
	flags.Bool("refresh", false, "bypass the response cache")
	flags.Bool("no-cache", false, "disable the response cache")
	flags.Bool("no-github", false, "disable the GitHub license fallback")
	flags.String("redis", "", "redis URL for a shared response cache (e.g. redis://localhost:6379/0)")
	flags.String("work-dir", "", "parent directory of the clone workspace (default system temp dir)")
	flags.Bool("keep-workspace", false, "keep cloned repositories after the run")

	return cmd
}

// runAnalyze executes one analyze run. Per-repository failures are printed
// but do not fail the command.
func (c *CLI) runAnalyze(ctx context.Context, cfg Config, args []string) error {
	urls := args
	if len(urls) == 0 {
		var err error
		if urls, err = pipeline.LoadRepos(cfg.Repos); err != nil {
			return err
		}
	}
	if len(urls) == 0 {
		printWarning("No repositories to analyze")
		printDetail("Add one repository URL per line to %s", cfg.Repos)
		return nil
	}

	overrides, err := override.Load(cfg.Mapping, c.Logger)
	if err != nil {
		return err
	}

	store, err := newCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	counters := observability.NewCounters()
	observability.SetRepositoryHooks(counters)
	observability.SetLookupHooks(counters)
	observability.SetCacheHooks(counters)
	observability.SetHTTPHooks(counters)
	defer observability.Reset()

	opts := cfg.PipelineOptions()
	opts.Overrides = overrides
	opts.Cache = store
	opts.Logger = c.Logger

	runner, err := pipeline.New(opts)
	if err != nil {
		return err
	}

	c.Logger.Info("analyzing repositories", "count", len(urls), "concurrency", cfg.Concurrency)
	res, err := runner.Run(ctx, urls)
	if err != nil {
		return err
	}

	start := time.Now()
	files, err := report.Write(cfg.Output, res.Reports, report.Options{
		Generated:          start,
		SkipInfrastructure: cfg.SkipInfra,
	})
	if err != nil {
		return err
	}
	c.Logger.Debug("wrote reports", "dir", cfg.Output, "files", len(files), "duration", time.Since(start))

	printRunSummary(res, files, counters.Snapshot())

	// Reports of the completed subset are on disk; surface the interrupt.
	return ctx.Err()
}
