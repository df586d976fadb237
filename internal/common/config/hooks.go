package config

import (
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// CustomHooks decodes durations written either as Go duration strings or as bare seconds,
// and comma separated strings into slices.
var CustomHooks = WithDecodeHooks()

// WithDecodeHooks returns a viper decoder option running extra ahead of the default hooks.
func WithDecodeHooks(extra ...mapstructure.DecodeHookFunc) []viper.DecoderConfigOption {
	hooks := append([]mapstructure.DecodeHookFunc{}, extra...)
	hooks = append(hooks,
		DurationOrSecondsHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
	return []viper.DecoderConfigOption{
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(hooks...)),
	}
}

func DurationOrSecondsHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		default:
			return data, nil
		}
	}
}
