package screening

import "errors"

var (
	ErrSessionEnded = errors.New("screening session has ended")
	ErrEmptyInput   = errors.New("empty input")
)

// ValidationError is a rejected input. It is recoverable: the stage is
// unchanged, nothing was written and Message is the corrective prompt.
type ValidationError struct {
	Stage   Stage
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
