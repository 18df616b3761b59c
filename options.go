package lazy

import (
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tychoish/lazy/ers"
	"github.com/tychoish/lazy/internal"
)

// OptionProvider is a function that modifies a configuration
// object, returning an error when the option cannot be applied.
type OptionProvider[T any] func(T) error

// Apply applies the option to the configuration.
func (op OptionProvider[T]) Apply(in T) error { return op(in) }

// ReplayTracker observes the lifecycle of the replay buffer behind a
// memoized sequence: admitted, rejected and released consumers, and
// buffered and evicted entries. Trackers are called while the buffer
// is locked, and must return quickly without touching the sequence.
// The tracking package provides logging and metrics implementations.
type ReplayTracker = internal.ReplayTracker

// MemoizeConf describes the configuration of a memoized sequence. The
// zero value is valid: it admits any number of cursors and tracks
// nothing.
type MemoizeConf struct {
	// ConsumerLimit is the maximum number of live cursors. Zero
	// means that there is no limit.
	ConsumerLimit int `validate:"gte=0"`
	// Tracker, when set, receives replay buffer events.
	Tracker ReplayTracker
}

var (
	confValidator     *validator.Validate
	confValidatorOnce sync.Once
)

// confFieldErrors maps the fields of configuration structs to the
// message reported when they fail validation.
var confFieldErrors = map[string]string{
	"ConsumerLimit": "consumer limit must be larger than 0",
}

func getConfValidator() *validator.Validate {
	confValidatorOnce.Do(func() {
		confValidator = validator.New(validator.WithRequiredStructEnabled())
	})
	return confValidator
}

// validateConf checks the validate tags of a configuration struct,
// and reports every failing field as an ErrInvalidArgument error.
func validateConf(conf any) error {
	err := getConfValidator().Struct(conf)

	var fields validator.ValidationErrors
	if !ers.As(err, &fields) {
		return err
	}

	errs := make([]error, 0, len(fields))
	for _, fe := range fields {
		msg, ok := confFieldErrors[fe.StructField()]
		if !ok {
			msg = fe.Error()
		}
		errs = append(errs, ers.Wrap(ErrInvalidArgument, msg))
	}
	return ers.Join(errs...)
}

// Validate returns an error for impossible configurations.
func (conf *MemoizeConf) Validate() error { return validateConf(conf) }

// MemoizeConfSet overrides the configuration with the provided
// configuration.
func MemoizeConfSet(conf *MemoizeConf) OptionProvider[*MemoizeConf] {
	return func(o *MemoizeConf) error {
		if conf == nil {
			return ers.Wrap(ErrInvalidArgument, "cannot use a nil configuration")
		}
		*o = *conf
		return nil
	}
}

// MemoizeConfConsumerLimit limits the number of live cursors of the
// memoized sequence. The limit must be positive.
func MemoizeConfConsumerLimit(limit int) OptionProvider[*MemoizeConf] {
	return func(o *MemoizeConf) error {
		if limit <= 0 {
			return ers.Wrap(ErrInvalidArgument, "consumer limit must be larger than 0")
		}
		o.ConsumerLimit = limit
		return nil
	}
}

// MemoizeConfTracker registers a tracker for the replay buffer.
func MemoizeConfTracker(tracker ReplayTracker) OptionProvider[*MemoizeConf] {
	return func(o *MemoizeConf) error {
		if tracker == nil {
			return ers.Wrap(ErrInvalidArgument, "cannot use a nil tracker")
		}
		o.Tracker = tracker
		return nil
	}
}
