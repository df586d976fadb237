package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/armadaproject/streambench/internal/common/logging"
)

var validate = validator.New()

// ValidateStruct checks the validate tags on cfg and returns one error per failing field.
func ValidateStruct(cfg interface{}) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	var result *multierror.Error
	for _, fe := range fieldErrors {
		result = multierror.Append(result, errors.New(describe(fe)))
	}
	return result.ErrorOrNil()
}

// LogValidationErrors logs each problem aggregated in err on its own line.
func LogValidationErrors(err error) {
	var result *multierror.Error
	if !errors.As(err, &result) {
		logging.Errorf("ConfigError: %s", err)
		return
	}
	for _, fieldErr := range result.Errors {
		logging.Errorf("ConfigError: %s", fieldErr)
	}
}

func describe(fe validator.FieldError) string {
	fieldName := stripPrefix(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("field %s is required but was not found", fieldName)
	default:
		return fmt.Sprintf("field %s has invalid value %v: %s=%s", fieldName, fe.Value(), fe.Tag(), fe.Param())
	}
}

func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		return s[idx+1:]
	}
	return s
}
