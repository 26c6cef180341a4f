package project

import "fmt"

type validationError struct{ msg string }

func (e *validationError) Error() string { return e.msg }

func errNamedf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}
