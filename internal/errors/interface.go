// Package errors gives every thrustctl failure a stable code. Loader,
// stats and storage failures are told apart by code, not by message.
package errors

// ErrorCode identifies a failure kind, e.g. "load_missing_columns"
type ErrorCode string

// Error is a coded failure. Data carries the offending value (a header
// list, a range, a file position) and is printed after the message.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory builds coded errors; packages call New() once per function
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
