package logging

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithField(t *testing.T) {
	logger, hook := testLogger()

	logger.WithField("foo", "bar").Info("test message")

	entries := hook.AllEntries()
	require.Len(t, entries, 1, "Expected exactly one log entry")
	assert.Equal(t, "test message", entries[0].Message)
	assert.Equal(t, "bar", entries[0].Data["foo"])
}

func TestWithFields(t *testing.T) {
	logger, hook := testLogger()

	logger.WithFields(map[string]any{
		"scenario": "simple_select",
		"batch":    50,
	}).Info("test message")

	entries := hook.AllEntries()
	require.Len(t, entries, 1, "Expected exactly one log entry")
	assert.Equal(t, "simple_select", entries[0].Data["scenario"])
	assert.Equal(t, 50, entries[0].Data["batch"])
}

func TestWithError(t *testing.T) {
	logger, hook := testLogger()

	err := errors.New("test error")
	logger.WithError(err).Warn("test message")

	entries := hook.AllEntries()
	require.Len(t, entries, 1, "Expected exactly one log entry")
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, err, entries[0].Data[logrus.ErrorKey])
}

func TestWithStacktrace(t *testing.T) {
	logger, hook := testLogger()

	err := errors.WithStack(errors.New("test error"))
	logger.WithStacktrace(err).Info("test message")

	entries := hook.AllEntries()
	require.Len(t, entries, 1, "Expected exactly one log entry")
	assert.Equal(t, err, entries[0].Data[logrus.ErrorKey])
	assert.Equal(t, err.(stackTracer).StackTrace(), entries[0].Data[Stacktrace])
}

func TestExtractStack_FollowsCause(t *testing.T) {
	root := errors.New("root")
	wrapped := errors.WithMessage(root, "context")

	assert.Equal(t, root.(stackTracer).StackTrace(), ExtractStack(wrapped))
	assert.Nil(t, ExtractStack(assert.AnError))
}

func TestGlobalWithStacktrace(t *testing.T) {
	logger, hook := testLogger()
	previous := StdLogger()
	ReplaceStdLogger(logger)
	t.Cleanup(func() { ReplaceStdLogger(previous) })

	err := errors.New("test error")
	WithStacktrace(err).Error("test message")
	Errorf("ConfigError: %s", "bad")

	entries := hook.AllEntries()
	require.Len(t, entries, 2, "Expected exactly two log entries")
	assert.Equal(t, err.(stackTracer).StackTrace(), entries[0].Data[Stacktrace])
	assert.Equal(t, "ConfigError: bad", entries[1].Message)
}

func TestNull(t *testing.T) {
	logger := Null()

	logger.WithField("foo", "bar").Error("discarded")

	assert.Equal(t, logrus.PanicLevel, logger.Entry().Logger.Level)
	assert.False(t, logger.Entry().Logger.IsLevelEnabled(logrus.ErrorLevel))
}

func TestNewLogrusLogger(t *testing.T) {
	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"text":          {cfg: Config{Level: "info", Format: FormatText}},
		"json":          {cfg: Config{Level: "DEBUG", Format: FormatJson}},
		"bad level":     {cfg: Config{Level: "chatty", Format: FormatText}, wantErr: true},
		"bad format":    {cfg: Config{Level: "info", Format: "xml"}, wantErr: true},
		"warning alias": {cfg: Config{Level: "warning", Format: FormatText}},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := NewLogrusLogger(tc.cfg, &buf)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			l.Error("hello")
			assert.Contains(t, buf.String(), "hello")
		})
	}
}

func TestCommandLineFormatter(t *testing.T) {
	out, err := new(CommandLineFormatter).Format(&logrus.Entry{Message: "records: 1,000"})
	require.NoError(t, err)
	assert.Equal(t, "records: 1,000\n", string(out))
}

func testLogger() (*Logger, *test.Hook) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	return FromLogrus(logrus.NewEntry(base)), hook
}
