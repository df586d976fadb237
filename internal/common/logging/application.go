package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const RFC3339Milli = "2006-01-02T15:04:05.000Z07:00"

// ConfigureApplicationLogging builds a logger from cfg that writes to out and installs it as the global logger.
func ConfigureApplicationLogging(cfg Config, out io.Writer) error {
	l, err := NewLogrusLogger(cfg, out)
	if err != nil {
		return err
	}
	ReplaceStdLogger(FromLogrus(logrus.NewEntry(l)))
	return nil
}

// NewLogrusLogger validates cfg and returns a logrus logger configured from it.
func NewLogrusLogger(cfg Config, out io.Writer) (*logrus.Logger, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	level, _ := parseLogLevel(cfg.Level)

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(level)
	if cfg.Format == FormatJson {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: RFC3339Milli})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: RFC3339Milli})
	}
	if cfg.PrometheusHook {
		if err := addPrometheusHook(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// ConfigureCliLogging sets up the global logger for short-lived command line usage: info level, message only.
func ConfigureCliLogging() {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(new(CommandLineFormatter))
	ReplaceStdLogger(FromLogrus(logrus.NewEntry(l)))
}
