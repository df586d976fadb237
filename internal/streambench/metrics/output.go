package metrics

import (
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/armadaproject/streambench/internal/streambench/configuration"
)

const SchemaVersion = "1.0"

type ScenarioStatus string

const (
	StatusPassed  ScenarioStatus = "passed"
	StatusFailed  ScenarioStatus = "failed"
	StatusSkipped ScenarioStatus = "skipped"
	// Report-only scenarios have no threshold.
	StatusReported ScenarioStatus = "reported"
)

type TestResult struct {
	Metadata      Metadata              `json:"metadata"`
	Configuration ConfigurationSnapshot `json:"configuration"`
	Results       []ScenarioReport      `json:"results"`
}

type Metadata struct {
	RunID        string `json:"runId"`
	Timestamp    string `json:"timestamp"`
	Version      string `json:"version"`
	TestDuration string `json:"testDuration,omitempty"`
}

type ConfigurationSnapshot struct {
	Profile      BatchConfigSnapshot `json:"profile"`
	JoinTimeout  string              `json:"joinTimeout"`
	StallBackoff string              `json:"stallBackoff"`
	MaxGroups    int                 `json:"maxGroups"`
	Scenarios    []string            `json:"scenarios,omitempty"`
}

type BatchConfigSnapshot struct {
	RecordCount       int     `json:"recordCount"`
	BatchSize         int     `json:"batchSize"`
	TimeoutMultiplier float64 `json:"timeoutMultiplier"`
}

// ScenarioReport is the result of one run within a scenario. Scenarios that sweep a parameter
// produce one report per value, distinguished by Variant.
type ScenarioReport struct {
	Name        string         `json:"name"`
	Variant     string         `json:"variant,omitempty"`
	Query       string         `json:"query,omitempty"`
	RecordCount int            `json:"recordCount"`
	BatchSize   int            `json:"batchSize"`
	Status      ScenarioStatus `json:"status"`
	Detail      string         `json:"detail,omitempty"`
	Metrics     RunMetrics     `json:"metrics"`
}

func BuildTestResult(
	runID string,
	config configuration.TestConfig,
	profile configuration.BatchConfig,
	reports []ScenarioReport,
	actualDuration time.Duration,
) TestResult {
	return TestResult{
		Metadata: Metadata{
			RunID:        runID,
			Timestamp:    time.Now().UTC().Format(time.RFC3339),
			Version:      SchemaVersion,
			TestDuration: actualDuration.String(),
		},
		Configuration: ConfigurationSnapshot{
			Profile: BatchConfigSnapshot{
				RecordCount:       profile.RecordCount,
				BatchSize:         profile.BatchSize,
				TimeoutMultiplier: profile.TimeoutMultiplier,
			},
			JoinTimeout:  config.JoinTimeout.String(),
			StallBackoff: config.StallBackoff.String(),
			MaxGroups:    config.MaxGroups,
			Scenarios:    config.Scenarios,
		},
		Results: reports,
	}
}

// WriteTestResultToFile writes result as indented JSON to dir/streambench-<runID>.json, creating
// dir if needed, and returns the path written.
func WriteTestResultToFile(result TestResult, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WithMessagef(err, "creating results directory %s", dir)
	}
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", errors.WithMessage(err, "marshalling test result")
	}
	path := filepath.Join(dir, "streambench-"+result.Metadata.RunID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.WithMessagef(err, "writing test result to %s", path)
	}
	return path, nil
}
