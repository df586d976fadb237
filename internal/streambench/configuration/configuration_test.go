package configuration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/armadaproject/streambench/internal/common/logging"
	"github.com/armadaproject/streambench/internal/streambench/engine"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestDetectEnvironment(t *testing.T) {
	tests := map[string]struct {
		env      map[string]string
		expected BatchConfig
	}{
		"local":               {env: map[string]string{}, expected: FullProfile},
		"ci":                  {env: map[string]string{"CI": "true"}, expected: ReducedProfile},
		"github actions":      {env: map[string]string{"GITHUB_ACTIONS": "true"}, expected: ReducedProfile},
		"set but empty":       {env: map[string]string{"CI": ""}, expected: ReducedProfile},
		"unrelated variables": {env: map[string]string{"HOME": "/root"}, expected: FullProfile},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DetectEnvironment(lookupFrom(tc.env)).Profile())
		})
	}
}

func TestProfiles(t *testing.T) {
	assert.Equal(t, BatchConfig{RecordCount: 1000, BatchSize: 50, TimeoutMultiplier: 0.5}, ReducedProfile)
	assert.Equal(t, BatchConfig{RecordCount: 2000, BatchSize: 100, TimeoutMultiplier: 2.0}, FullProfile)
	assert.NoError(t, ReducedProfile.Validate())
	assert.NoError(t, FullProfile.Validate())
}

func TestResolveProfile(t *testing.T) {
	override := BatchConfig{RecordCount: 10, BatchSize: 5, TimeoutMultiplier: 1}
	cfg := Default()
	assert.Equal(t, ReducedProfile, cfg.ResolveProfile(Environment{CI: true}))

	cfg.Profile = &override
	assert.Equal(t, override, cfg.ResolveProfile(Environment{CI: true}))
}

func TestTestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*TestConfig)
		wantErr bool
		errText string
	}{
		{
			name:   "defaults are valid",
			modify: func(c *TestConfig) {},
		},
		{
			name:    "zero join timeout",
			modify:  func(c *TestConfig) { c.JoinTimeout = 0 },
			wantErr: true,
			errText: "JoinTimeout",
		},
		{
			name:    "negative stall backoff",
			modify:  func(c *TestConfig) { c.StallBackoff = -time.Millisecond },
			wantErr: true,
			errText: "StallBackoff",
		},
		{
			name:    "zero batch size in profile",
			modify:  func(c *TestConfig) { c.Profile = &BatchConfig{RecordCount: 10, TimeoutMultiplier: 1} },
			wantErr: true,
			errText: "profile: ",
		},
		{
			name:    "duplicate scenario",
			modify:  func(c *TestConfig) { c.Scenarios = []string{"simple_select", "simple_select"} },
			wantErr: true,
			errText: "scenario simple_select is listed more than once",
		},
		{
			name: "custom run without query",
			modify: func(c *TestConfig) {
				c.CustomRuns = []RunConfig{{Name: "mine", RecordCount: 10, BatchSize: 5}}
			},
			wantErr: true,
			errText: "CustomRuns[0].Query",
		},
		{
			name: "custom run clashing with scenario",
			modify: func(c *TestConfig) {
				c.Scenarios = []string{"simple_select"}
				c.CustomRuns = []RunConfig{{Name: "simple_select", Query: engine.QueryKindSelect, RecordCount: 10, BatchSize: 5}}
			},
			wantErr: true,
			errText: "custom run name simple_select is already in use",
		},
		{
			name: "valid custom run",
			modify: func(c *TestConfig) {
				c.CustomRuns = []RunConfig{{Name: "mine", Query: engine.QueryKindWindow, RecordCount: 10, BatchSize: 5, MinThroughput: 1}}
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			err := cfg.Validate()
			if !tc.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errText)
		})
	}
}

func TestTestConfig_ValidateReportsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.JoinTimeout = 0
	cfg.MaxGroups = 0
	cfg.Scenarios = []string{"a", "a"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JoinTimeout")
	assert.Contains(t, err.Error(), "MaxGroups")
	assert.Contains(t, err.Error(), "listed more than once")
}

func TestTestConfig_ValidateReportsEachProfileError(t *testing.T) {
	cfg := Default()
	cfg.Profile = &BatchConfig{RecordCount: -1}

	err := cfg.Validate()
	require.Error(t, err)
	var result *multierror.Error
	require.True(t, errors.As(err, &result))
	require.Len(t, result.Errors, 3)
	for _, fieldErr := range result.Errors {
		assert.True(t, strings.HasPrefix(fieldErr.Error(), "profile: field "), fieldErr.Error())
	}
}

func TestLoad_LogsValidationErrors(t *testing.T) {
	base, hook := test.NewNullLogger()
	previous := logging.StdLogger()
	logging.ReplaceStdLogger(logging.FromLogrus(logrus.NewEntry(base)))
	t.Cleanup(func() { logging.ReplaceStdLogger(previous) })

	v := viper.New()
	v.Set("maxGroups", 0)
	v.Set("scenarios", []string{"simple_select", "simple_select"})
	_, err := Load(v, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, logrus.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].Message, "ConfigError: field MaxGroups")
	assert.Equal(t, "ConfigError: scenario simple_select is listed more than once", entries[1].Message)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streambench.yaml")
	contents := `
profile:
  recordCount: 5000
  batchSize: 250
  timeoutMultiplier: 1.5
joinTimeout: 5s
stallBackoff: 20ms
scenarios:
  - simple_select
customRuns:
  - name: wide
    query: Aggregation
    recordCount: 100
    batchSize: 10
    minThroughput: 50
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	require.NotNil(t, cfg.Profile)
	assert.Equal(t, BatchConfig{RecordCount: 5000, BatchSize: 250, TimeoutMultiplier: 1.5}, *cfg.Profile)
	assert.Equal(t, 5*time.Second, cfg.JoinTimeout)
	assert.Equal(t, 20*time.Millisecond, cfg.StallBackoff)
	assert.Equal(t, []string{"simple_select"}, cfg.Scenarios)
	require.Len(t, cfg.CustomRuns, 1)
	assert.Equal(t, engine.QueryKindAggregation, cfg.CustomRuns[0].Query)
	assert.Equal(t, 50.0, cfg.CustomRuns[0].MinThroughput)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_RejectsUnknownQueryKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "streambench.yaml")
	contents := `
customRuns:
  - name: broken
    query: join
    recordCount: 100
    batchSize: 10
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	_, err := Load(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown query kind")
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("STREAMBENCH_MAXGROUPS", "50")
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxGroups)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
