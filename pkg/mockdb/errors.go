package mockdb

import (
	"errors"
	"fmt"
)

// Error codes carried by Error. They match the codes the hosted API
// returns for the same conditions so callers can branch on either.
const (
	CodeDuplicateKey    = "23505"
	CodeUnknownTable    = "42P01"
	CodeTooManyRows     = "PGRST116"
	CodeBuilderConsumed = "PGRST000"
)

var (
	// ErrUnknownTable is returned when a table name is not registered.
	ErrUnknownTable = errors.New("unknown table")

	// ErrDuplicateKey is returned when an insert would repeat a unique value.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrTooManyRows is returned by Single when more than one row matches.
	ErrTooManyRows = errors.New("more than one row returned")

	// ErrBuilderConsumed is returned when a builder runs a second terminal
	// operation.
	ErrBuilderConsumed = errors.New("query builder already executed")
)

// Error is the error value carried in a Result. It is data, not a panic:
// callers inspect Code or use errors.Is against the sentinels above.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.err
}

func duplicateKeyError(column string) *Error {
	return &Error{
		Code:    CodeDuplicateKey,
		Message: fmt.Sprintf("Duplicate key (%s) violates unique constraint.", column),
		err:     ErrDuplicateKey,
	}
}

func unknownTableError(name string) *Error {
	return &Error{
		Code:    CodeUnknownTable,
		Message: fmt.Sprintf("Mock table '%s' not found.", name),
		err:     ErrUnknownTable,
	}
}

func tooManyRowsError() *Error {
	return &Error{
		Code:    CodeTooManyRows,
		Message: "More than one row returned for single()",
		err:     ErrTooManyRows,
	}
}

func consumedError() *Error {
	return &Error{
		Code:    CodeBuilderConsumed,
		Message: "Query builder has already been executed",
		err:     ErrBuilderConsumed,
	}
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var qe *Error
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
