package ers

import (
	"errors"
	"fmt"
)

// As is a wrapper around errors.As to allow ers to be a drop in
// replacement for errors.
func As(err error, target any) bool { return errors.As(err, target) }

// Join is a wrapper around errors.Join. Nil errors are dropped, and
// the result is nil when every input is nil.
func Join(errs ...error) error { return errors.Join(errs...) }

// Wrap annotates an error with a message, in the form
// "<msg>: <err>". The output is nil when err is nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf is the formatted variant of Wrap.
func Wrapf(err error, tmpl string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(tmpl, args...), err)
}
