package cmd

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/armadaproject/streambench/internal/common/logging"
	"github.com/armadaproject/streambench/internal/streambench/configuration"
)

const (
	defaultConfigName     = ".streambench.yaml"
	configFlag            = "config"
	resultsDirFlag        = "results-dir"
	metricsPortFlag       = "metrics-port"
	joinTimeoutFlag       = "join-timeout"
	recordCountFlag       = "record-count"
	batchSizeFlag         = "batch-size"
	timeoutMultiplierFlag = "timeout-multiplier"
)

var (
	cfgFile string
	v       = viper.New()
	// Populated by loadConfig before any subcommand runs.
	cfg configuration.TestConfig
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, configFlag, "", "YAML file with streambench settings (default $HOME/"+defaultConfigName+" if present)")
	flags.String(resultsDirFlag, "results", "Directory result files are written to. Empty disables result files")
	flags.Uint16(metricsPortFlag, 0, "Port to serve prometheus metrics on while running. Zero disables the endpoint")
	flags.Duration(joinTimeoutFlag, 0, "How long a run may take to stop once its budget has expired")
	flags.Int(recordCountFlag, 0, "Override the profile's record count")
	flags.Int(batchSizeFlag, 0, "Override the profile's batch size")
	flags.Float64(timeoutMultiplierFlag, 0, "Override the profile's timeout multiplier")

	mustBind("resultsDir", flags.Lookup(resultsDirFlag))
	mustBind("metricsPort", flags.Lookup(metricsPortFlag))
	mustBind("joinTimeout", flags.Lookup(joinTimeoutFlag))

	rootCmd.AddCommand(runCmd, suiteCmd, estimateCmd, listCmd)
}

var rootCmd = &cobra.Command{
	Use:   "streambench",
	Short: "Benchmark harness for the streaming query engine",
	Long: `
Benchmark harness for the streaming query engine.

Runs generated market data through the engine under a time budget and reports throughput,
latency and pass/fail per scenario. The profile is picked from the environment: with CI or
GITHUB_ACTIONS set runs use 1,000 records in batches of 50, otherwise 2,000 records in
batches of 100.

Settings can be saved in a config file passed with --config or picked from
$HOME/.streambench.yaml, and overridden with STREAMBENCH_* environment variables or flags.

Example structure:

profile:
  recordCount: 5000
  batchSize: 250
  timeoutMultiplier: 1.5
joinTimeout: 5s
scenarios:
  - simple_select
  - window_functions
customRuns:
  - name: wide_aggregation
    query: aggregation
    recordCount: 20000
    batchSize: 500
    minThroughput: 400
`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError logs err with its stack trace attached. The command line formatter prints only the
// message; once a config file switches logging to text or json the stack is written too.
func reportError(err error) {
	logging.WithStacktrace(err).Error(err)
}

func loadConfig(_ *cobra.Command, _ []string) error {
	path, err := configFile(cfgFile)
	if err != nil {
		return err
	}
	loaded, err := configuration.Load(v, path)
	if err != nil {
		return err
	}
	if err := logging.ConfigureApplicationLogging(loaded.Logging, os.Stderr); err != nil {
		return errors.WithMessage(err, "configuring logging")
	}
	cfg = loaded
	return nil
}

// configFile returns explicit if set, otherwise the config file in the home directory if there is one.
func configFile(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", errors.WithMessage(err, "error getting user home directory")
	}
	path := filepath.Join(home, defaultConfigName)
	if _, err := os.Stat(path); err != nil {
		return "", nil
	}
	return path, nil
}

// resolveProfile applies any profile flags given on the command line on top of the profile picked
// from the config file or the environment.
func resolveProfile(flags *pflag.FlagSet, config configuration.TestConfig, env configuration.Environment) (configuration.BatchConfig, error) {
	profile := config.ResolveProfile(env)
	var err error
	if flags.Changed(recordCountFlag) {
		if profile.RecordCount, err = flags.GetInt(recordCountFlag); err != nil {
			return profile, err
		}
	}
	if flags.Changed(batchSizeFlag) {
		if profile.BatchSize, err = flags.GetInt(batchSizeFlag); err != nil {
			return profile, err
		}
	}
	if flags.Changed(timeoutMultiplierFlag) {
		if profile.TimeoutMultiplier, err = flags.GetFloat64(timeoutMultiplierFlag); err != nil {
			return profile, err
		}
	}
	if err := profile.Validate(); err != nil {
		return profile, errors.WithMessage(err, "invalid profile")
	}
	return profile, nil
}

func mustBind(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}
