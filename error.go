package grx

import (
	"fmt"

	"github.com/pkg/errors"
)

// RuntimeErr carries a panic recovered from user supplied code.
type RuntimeErr struct {
	err error
}

// RuntimeError converts a recovered panic value into an error. Values that
// already are errors keep their identity for errors.Is / errors.As.
func RuntimeError(v interface{}) error {
	if re, ok := v.(*RuntimeErr); ok {
		return re
	}
	if err, ok := v.(error); ok {
		return &RuntimeErr{errors.WithStack(err)}
	}
	return &RuntimeErr{errors.Errorf("runtime-error: %v", v)}
}

func (e *RuntimeErr) Error() string {
	return e.err.Error()
}

func (e *RuntimeErr) Previous() error {
	return errors.Cause(e.err)
}

func (e *RuntimeErr) Unwrap() error {
	return e.err
}

// Format prints the captured stack with %+v.
func (e *RuntimeErr) Format(s fmt.State, verb rune) {
	if f, ok := e.err.(fmt.Formatter); ok {
		f.Format(s, verb)
		return
	}
	fmt.Fprint(s, e.err.Error())
}
