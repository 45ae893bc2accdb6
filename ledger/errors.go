package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies ledger errors so handlers can pick a status code without
// string matching.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindInvalidType Kind = "invalid_type"
	KindPersistence Kind = "persistence"
	KindBatchRow    Kind = "batch_row"
)

// Error is the structured error every posting operation returns. Row is the
// 1-based spreadsheet row (header included) for batch import errors.
type Error struct {
	Kind    Kind
	Message string
	Row     int
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindBatchRow {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of a ledger error, or KindPersistence for anything
// else that bubbled out of the store.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindPersistence
}

func errValidation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func errNotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func errInvalidType(typ string) *Error {
	return &Error{Kind: KindInvalidType, Message: fmt.Sprintf("invalid transaction type %q", typ)}
}

func errPersistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: msg, Err: err}
}

func errBatchRow(row int, err error) *Error {
	return &Error{Kind: KindBatchRow, Row: row, Err: err}
}
