// internal/fieldbus/errors.go
package fieldbus

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for requests rejected without a bus transaction.
var ErrInvalidArgument = errors.New("fieldbus: invalid argument")

var errShortResponse = errors.New("fieldbus: short response")

// TransactionError reports one failed register transaction.
type TransactionError struct {
	Op      string // read | write
	Address uint16
	Err     error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("fieldbus: %s reg %d: %v", e.Op, e.Address, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
