package configuration

import (
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/armadaproject/streambench/internal/common/config"
	"github.com/armadaproject/streambench/internal/common/logging"
	"github.com/armadaproject/streambench/internal/streambench/coordinator"
	"github.com/armadaproject/streambench/internal/streambench/engine"
	"github.com/armadaproject/streambench/internal/streambench/pipeline"
)

const EnvPrefix = "STREAMBENCH"

// SetDefaults registers the harness defaults on v.
func SetDefaults(v *viper.Viper) {
	loggingDefaults := logging.DefaultConfig()
	v.SetDefault("joinTimeout", coordinator.DefaultJoinTimeout)
	v.SetDefault("stallBackoff", pipeline.DefaultStallBackoff)
	v.SetDefault("maxGroups", engine.DefaultMaxGroups)
	v.SetDefault("resultsDir", "results")
	v.SetDefault("metricsPort", 0)
	v.SetDefault("logging.level", loggingDefaults.Level)
	v.SetDefault("logging.format", loggingDefaults.Format)
	v.SetDefault("logging.prometheusHook", false)
}

// Default returns the configuration used when no file or overrides are supplied.
func Default() TestConfig {
	return TestConfig{
		JoinTimeout:  coordinator.DefaultJoinTimeout,
		StallBackoff: pipeline.DefaultStallBackoff,
		MaxGroups:    engine.DefaultMaxGroups,
		ResultsDir:   "results",
		Logging:      logging.DefaultConfig(),
	}
}

// Load reads the optional config file at path, applies STREAMBENCH_* environment overrides and
// decodes the result into a validated TestConfig.
func Load(v *viper.Viper, path string) (TestConfig, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return TestConfig{}, errors.WithMessagef(err, "reading config file %s", path)
		}
	}

	var cfg TestConfig
	if err := v.Unmarshal(&cfg, config.WithDecodeHooks(QueryKindHookFunc())...); err != nil {
		return TestConfig{}, errors.WithMessage(err, "decoding configuration")
	}
	if err := cfg.Validate(); err != nil {
		config.LogValidationErrors(err)
		return TestConfig{}, errors.WithMessage(err, "invalid configuration")
	}
	return cfg, nil
}

// QueryKindHookFunc parses query kinds so that a typo in a config file fails at load time.
func QueryKindHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		// check that src and target types are valid
		if f.Kind() != reflect.String || t != reflect.TypeOf(engine.QueryKind("")) {
			return data, nil
		}
		return engine.ParseQueryKind(data.(string))
	}
}
