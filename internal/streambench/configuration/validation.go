package configuration

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/armadaproject/streambench/internal/common/config"
)

func (c BatchConfig) Validate() error {
	return config.ValidateStruct(c)
}

// Validate returns every problem with the configuration, not just the first.
func (c TestConfig) Validate() error {
	var result *multierror.Error
	if err := config.ValidateStruct(c); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Profile != nil {
		if err := c.Profile.Validate(); err != nil {
			// Append flattens the profile's own multierror so each problem is reported on its own line.
			for _, fieldErr := range multierror.Append(nil, err).Errors {
				result = multierror.Append(result, errors.WithMessage(fieldErr, "profile"))
			}
		}
	}

	seen := map[string]bool{}
	for _, name := range c.Scenarios {
		if seen[name] {
			result = multierror.Append(result, errors.Errorf("scenario %s is listed more than once", name))
		}
		seen[name] = true
	}
	for _, run := range c.CustomRuns {
		if seen[run.Name] {
			result = multierror.Append(result, errors.Errorf("custom run name %s is already in use", run.Name))
		}
		seen[run.Name] = true
	}
	return result.ErrorOrNil()
}
