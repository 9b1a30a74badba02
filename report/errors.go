package report

import "fmt"

// LocalCompileError is a compilation error that occurs in a context in which
// the file is known by the error handler and thus doesn't need to be passed
// along with the error.  The lexer returns these for unrecognized input.
type LocalCompileError struct {
	// The error message.
	Message string

	// The position at which the error occurs.
	Position *TextPosition
}

func (lce *LocalCompileError) Error() string {
	if lce.Position == nil {
		return lce.Message
	}

	return fmt.Sprintf("%s at %s", lce.Message, lce.Position)
}

// Raise creates a new local compile error.
func Raise(pos *TextPosition, msg string, args ...interface{}) *LocalCompileError {
	return &LocalCompileError{Message: fmt.Sprintf(msg, args...), Position: pos}
}
