package cli

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/matzehuels/depaudit/pkg/deps"
	"github.com/matzehuels/depaudit/pkg/deps/languages"
	deperrors "github.com/matzehuels/depaudit/pkg/errors"
	"github.com/matzehuels/depaudit/pkg/override"
	"github.com/matzehuels/depaudit/pkg/pipeline"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// defaultConfigName is looked up in the working directory as
	// depaudit.yaml when --config is not given.
	defaultConfigName = appName

	// defaultOutputDir is where reports are written.
	defaultOutputDir = "."
)

// =============================================================================
// Config
// =============================================================================

// Config is the resolved configuration of an analyze run. Values come from
// flags, DEPAUDIT_* environment variables, depaudit.yaml and defaults, in
// that order of precedence.
type Config struct {
	Repos             string         `mapstructure:"repos"`
	Mapping           string         `mapstructure:"mapping"`
	Output            string         `mapstructure:"output"`
	Concurrency       int            `mapstructure:"concurrency"`
	RemoteConcurrency int            `mapstructure:"remote_concurrency"`
	RequestTimeout    time.Duration  `mapstructure:"request_timeout"`
	Budgets           map[string]int `mapstructure:"budgets"`
	ImportHints       bool           `mapstructure:"import_hints"`
	SkipInfra         bool           `mapstructure:"skip_infra"`
	Refresh           bool           `mapstructure:"refresh"`
	NoCache           bool           `mapstructure:"no_cache"`
	NoGitHub          bool           `mapstructure:"no_github"`
	RedisURL          string         `mapstructure:"redis_url"`
	GitHubToken       string         `mapstructure:"github_token"`
	WorkDir           string         `mapstructure:"work_dir"`
	KeepWorkspace     bool           `mapstructure:"keep_workspace"`
}

// WithDefaults fills zero values.
func (c Config) WithDefaults() Config {
	if c.Repos == "" {
		c.Repos = pipeline.DefaultReposFile
	}
	if c.Mapping == "" {
		c.Mapping = override.DefaultFile
	}
	if c.Output == "" {
		c.Output = defaultOutputDir
	}
	if c.Concurrency == 0 {
		c.Concurrency = pipeline.DefaultConcurrency
	}
	if c.RemoteConcurrency == 0 {
		c.RemoteConcurrency = pipeline.DefaultRemoteConcurrency
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = pipeline.DefaultRequestTimeout
	}
	return c
}

// Validate reports the first invalid setting as an INVALID_CONFIG error.
func (c Config) Validate() error {
	if c.Concurrency < 0 {
		return deperrors.New(deperrors.ErrCodeInvalidConfig, "concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.RemoteConcurrency < 0 {
		return deperrors.New(deperrors.ErrCodeInvalidConfig, "remote concurrency must not be negative, got %d", c.RemoteConcurrency)
	}
	if c.RequestTimeout < 0 {
		return deperrors.New(deperrors.ErrCodeInvalidConfig, "request timeout must not be negative, got %s", c.RequestTimeout)
	}
	for eco, n := range c.Budgets {
		if !knownEcosystem(eco) {
			return deperrors.New(deperrors.ErrCodeInvalidConfig, "budget for unknown ecosystem %q", eco)
		}
		if n < 0 {
			return deperrors.New(deperrors.ErrCodeInvalidConfig, "budget for %s must not be negative, got %d", eco, n)
		}
	}
	if c.NoCache && c.RedisURL != "" {
		return deperrors.New(deperrors.ErrCodeInvalidConfig, "--no-cache and --redis are mutually exclusive")
	}
	return nil
}

// PipelineOptions maps the config onto pipeline options. Runtime
// collaborators are filled in by the caller.
func (c Config) PipelineOptions() pipeline.Options {
	var budgets map[deps.Ecosystem]int
	if len(c.Budgets) > 0 {
		budgets = make(map[deps.Ecosystem]int, len(c.Budgets))
		for eco, n := range c.Budgets {
			budgets[deps.Ecosystem(eco)] = n
		}
	}
	return pipeline.Options{
		Concurrency:       c.Concurrency,
		RemoteConcurrency: c.RemoteConcurrency,
		RequestTimeout:    c.RequestTimeout,
		Budgets:           budgets,
		ImportHints:       c.ImportHints,
		SkipInfra:         c.SkipInfra,
		Refresh:           c.Refresh,
		GitHubToken:       c.GitHubToken,
		NoGitHub:          c.NoGitHub,
		WorkDir:           c.WorkDir,
		KeepWorkspace:     c.KeepWorkspace,
	}
}

func knownEcosystem(eco string) bool {
	return languages.Find(eco) != nil
}

// =============================================================================
// Loading
// =============================================================================

// boundFlags maps config keys to the analyze flags that set them.
var boundFlags = map[string]string{
	"repos":              "repos",
	"mapping":            "mapping",
	"output":             "output",
	"concurrency":        "concurrency",
	"remote_concurrency": "remote-concurrency",
	"request_timeout":    "request-timeout",
	"import_hints":       "import-hints",
	"skip_infra":         "skip-infra",
	"refresh":            "refresh",
	"no_cache":           "no-cache",
	"no_github":          "no-github",
	"redis_url":          "redis",
	"work_dir":           "work-dir",
	"keep_workspace":     "keep-workspace",
}

// loadConfig resolves the configuration for cmd. A .env file in the working
// directory is loaded into the environment first. path names an explicit
// config file; without it depaudit.yaml is optional. GITHUB_TOKEN is used
// when no token is configured.
func loadConfig(cmd *cobra.Command, path string) (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, deperrors.Wrap(deperrors.ErrCodeInvalidConfig, err, "read config")
		}
	}

	for key, name := range boundFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, deperrors.Wrap(deperrors.ErrCodeInternal, err, "bind flag %s", name)
			}
		}
	}
	// AutomaticEnv only covers keys viper already knows about.
	_ = v.BindEnv("github_token")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, deperrors.Wrap(deperrors.ErrCodeInvalidConfig, err, "decode config")
	}

	if cmd.Flags().Changed("budget") {
		flagBudgets, err := cmd.Flags().GetStringToInt("budget")
		if err != nil {
			return Config{}, deperrors.Wrap(deperrors.ErrCodeInvalidConfig, err, "parse --budget")
		}
		if cfg.Budgets == nil {
			cfg.Budgets = make(map[string]int, len(flagBudgets))
		}
		for eco, n := range flagBudgets {
			cfg.Budgets[strings.ToLower(eco)] = n
		}
	}
	if cfg.GitHubToken == "" {
		cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	}

	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
