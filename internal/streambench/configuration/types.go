package configuration

import (
	"time"

	"github.com/armadaproject/streambench/internal/common/logging"
	"github.com/armadaproject/streambench/internal/streambench/engine"
)

// BatchConfig sizes a benchmark run.
type BatchConfig struct {
	RecordCount       int     `mapstructure:"recordCount" validate:"gte=0"`
	BatchSize         int     `mapstructure:"batchSize" validate:"gt=0"`
	TimeoutMultiplier float64 `mapstructure:"timeoutMultiplier" validate:"gt=0"`
}

// RunConfig describes a user-defined run executed alongside the built-in scenarios.
type RunConfig struct {
	Name        string           `mapstructure:"name" validate:"required"`
	Query       engine.QueryKind `mapstructure:"query" validate:"required"`
	RecordCount int              `mapstructure:"recordCount" validate:"gt=0"`
	BatchSize   int              `mapstructure:"batchSize" validate:"gt=0"`
	// Minimum throughput in records per second. Zero means report only.
	MinThroughput float64 `mapstructure:"minThroughput" validate:"gte=0"`
}

type TestConfig struct {
	// Overrides the profile picked from the environment when set.
	Profile      *BatchConfig   `mapstructure:"profile" validate:"-"`
	JoinTimeout  time.Duration  `mapstructure:"joinTimeout" validate:"gt=0"`
	StallBackoff time.Duration  `mapstructure:"stallBackoff" validate:"gt=0"`
	MaxGroups    int            `mapstructure:"maxGroups" validate:"gt=0"`
	ResultsDir   string         `mapstructure:"resultsDir"`
	MetricsPort  uint16         `mapstructure:"metricsPort"`
	Scenarios    []string       `mapstructure:"scenarios"`
	CustomRuns   []RunConfig    `mapstructure:"customRuns" validate:"dive"`
	Logging      logging.Config `mapstructure:"logging"`
}
