package scenario

import (
	"fmt"

	"github.com/pkg/errors"
)

// ThresholdError reports a run whose metrics fell on the wrong side of a scenario's limit.
type ThresholdError struct {
	Scenario string
	Variant  string
	Metric   string
	Actual   float64
	Limit    float64
	// AtMost is set for upper limits such as memory. Otherwise Limit is a lower bound.
	AtMost bool
}

func (e *ThresholdError) Error() string {
	name := e.Scenario
	if e.Variant != "" {
		name += " (" + e.Variant + ")"
	}
	relation := "below minimum"
	if e.AtMost {
		relation = "above maximum"
	}
	return fmt.Sprintf("%s: %s %.2f %s %.2f", name, e.Metric, e.Actual, relation, e.Limit)
}

type skipError struct {
	reason string
}

func (e *skipError) Error() string {
	return "skipped: " + e.reason
}

// Skip marks a run as not applicable to the engine under test. A skipped run is not a failure.
func Skip(reason string) error {
	return &skipError{reason: reason}
}

func IsSkip(err error) bool {
	var s *skipError
	return errors.As(err, &s)
}

func IsThresholdError(err error) bool {
	var t *ThresholdError
	return errors.As(err, &t)
}
