package transaction

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("transaction not found")

// ValidationError is a rejected request. Message is safe to show to users.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrHolderRequired is returned when a retained transaction would complete without a holder.
var ErrHolderRequired = &ValidationError{
	Message: "attach a holder before completing a transaction with retained funds",
}

// Kind is the coarse category of a failure, used by callers to pick a reaction.
type Kind int

const (
	KindStore Kind = iota
	KindValidation
	KindNotFound
)

// KindOf classifies err. Anything that is neither a validation error nor a missing record
// is a store failure.
func KindOf(err error) Kind {
	var verr *ValidationError

	switch {
	case errors.As(err, &verr):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	}

	return KindStore
}
