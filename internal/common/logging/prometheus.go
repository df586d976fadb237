package logging

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaveworks/promrus"
)

// addPrometheusHook registers the log_messages counter vector and counts every
// debug, info, warn and error line emitted through l.
func addPrometheusHook(l *logrus.Logger) error {
	hook, err := promrus.NewPrometheusHook()
	if err != nil {
		return errors.WithMessage(err, "registering log_messages counters")
	}
	l.AddHook(hook)
	return nil
}
