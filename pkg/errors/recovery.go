package errors

import (
	"fmt"
)

// Recover converts a recovered panic value into an AppError. It returns nil
// when r is nil so it can be used directly with the result of recover().
func Recover(r interface{}, operation string) *AppError {
	if r == nil {
		return nil
	}

	var cause error
	switch v := r.(type) {
	case error:
		cause = v
	default:
		cause = fmt.Errorf("%v", v)
	}

	return Wrap(cause, ErrCodePanic, fmt.Sprintf("Unexpected failure during %s", operation)).
		WithSeverity(SeverityCritical).
		WithContext("operation", operation)
}
