package mines

import "errors"

var (
	ErrInvalidConfiguration = errors.New("invalid field configuration")
	ErrOutOfRange           = errors.New("coordinate out of range")
)

// AssertionError reports a broken internal invariant. It is raised with panic,
// never returned.
type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
